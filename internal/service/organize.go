package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/raphaelgruber/kondo-go/internal/metrics"
	"github.com/raphaelgruber/kondo-go/internal/models"
	"github.com/raphaelgruber/kondo-go/internal/naming"
	"github.com/raphaelgruber/kondo-go/internal/similarity"
)

// SkipFolderName is the folder that receives ungrouped files when enabled.
const SkipFolderName = "kondo-skip"

// OrganizeOptions configures a similarity run.
type OrganizeOptions struct {
	// MoveSkipped relocates single and system files into SkipFolderName.
	MoveSkipped bool
	// SortEntries orders the listing by name instead of directory order.
	SortEntries bool
	// Workers bounds concurrent scoring while clustering (default 1).
	Workers int
	// Log receives every step in the order it happens.
	Log models.LogFunc
	// OnProgress is called after each group with the number of groups processed.
	OnProgress func(done, total int)
}

// OrganizeService groups files by filename similarity and moves each group
// into its own folder.
type OrganizeService struct {
	cfg     similarity.Config
	metrics *metrics.Collector
}

// NewOrganizeService creates a new organize service. collector may be nil.
func NewOrganizeService(cfg similarity.Config, collector *metrics.Collector) *OrganizeService {
	return &OrganizeService{cfg: cfg, metrics: collector}
}

// Config returns the similarity configuration in use.
func (s *OrganizeService) Config() similarity.Config {
	return s.cfg
}

// Analyze lists dir and clusters its files without touching the filesystem.
func (s *OrganizeService) Analyze(dir string, opts OrganizeOptions) ([]models.FileGroup, error) {
	done := s.metrics.Track(metrics.OpListDir)
	filenames, err := ListFiles(dir, opts.SortEntries)
	done(err)
	if err != nil {
		return nil, err
	}
	return s.cluster(filenames, opts), nil
}

func (s *OrganizeService) cluster(filenames []string, opts OrganizeOptions) []models.FileGroup {
	start := time.Now()
	groups := similarity.NewGrouper(s.cfg, opts.Workers).Group(filenames)
	s.metrics.RecordTiming(metrics.OpCluster, time.Since(start), false)
	slog.Debug("clustered files", "files", len(filenames), "groups", len(groups), "elapsed", time.Since(start))
	return groups
}

// Organize lists dir, clusters its files and places every group. Only a
// listing failure is returned as an error; everything after that is
// recorded in the result and the run continues.
func (s *OrganizeService) Organize(dir string, opts OrganizeOptions) (*models.OrganizeResult, error) {
	logf := opts.Log
	if logf == nil {
		logf = models.Discard
	}

	logf(fmt.Sprintf("Starting organization in: %s", dir))

	done := s.metrics.Track(metrics.OpListDir)
	filenames, err := ListFiles(dir, opts.SortEntries)
	done(err)
	if err != nil {
		return nil, err
	}
	logf(fmt.Sprintf("Found %d files to process", len(filenames)))

	logf("Analyzing file similarities...")
	groups := s.cluster(filenames, opts)
	logf(fmt.Sprintf("Identified %d file groups", len(groups)))

	return s.Place(dir, groups, opts), nil
}

// Place moves already clustered groups under dir. Groups of one file are
// classified as skipped; larger groups go to their suggested folder.
func (s *OrganizeService) Place(dir string, groups []models.FileGroup, opts OrganizeOptions) *models.OrganizeResult {
	p := &placement{
		dir:     dir,
		log:     opts.Log,
		metrics: s.metrics,
		result: &models.OrganizeResult{
			SkippedDetails: []models.SkippedFile{},
			Errors:         []string{},
		},
	}
	if p.log == nil {
		p.log = models.Discard
	}

	if opts.MoveSkipped {
		p.prepareSkipFolder()
	}

	for i, group := range groups {
		if group.IsSingle() {
			p.skipGroup(group)
		} else {
			p.placeGroup(group)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(groups))
		}
	}

	r := p.result
	p.log(fmt.Sprintf("Organization complete: %d files moved, %d folders created, %d files skipped",
		r.FilesMoved, r.FoldersCreated, r.FilesSkipped))
	return r
}

// placement carries the state of one Place call.
type placement struct {
	dir     string
	skipDir string
	log     models.LogFunc
	metrics *metrics.Collector
	result  *models.OrganizeResult
}

func (p *placement) fail(msg string) {
	p.log(msg)
	p.result.Errors = append(p.result.Errors, msg)
}

func (p *placement) prepareSkipFolder() {
	skipDir := filepath.Join(p.dir, SkipFolderName)
	if pathExists(skipDir) {
		if !isDir(skipDir) {
			p.fail(fmt.Sprintf("Failed to create skip folder: %s exists and is not a directory", skipDir))
			return
		}
		p.skipDir = skipDir
		return
	}

	done := p.metrics.Track(metrics.OpMkdir)
	err := os.Mkdir(skipDir, 0o755)
	done(err)
	if err != nil {
		p.fail(fmt.Sprintf("Failed to create skip folder: %v", err))
		return
	}
	p.log(fmt.Sprintf("Created skip folder: %s", skipDir))
	p.skipDir = skipDir
}

func (p *placement) skipGroup(group models.FileGroup) {
	for _, filename := range group.Files {
		reason := models.SkipSingleFile
		if naming.IsSystemFile(filename) {
			reason = models.SkipSystemFile
			p.log(fmt.Sprintf("Skipped system file: %s", filename))
		} else {
			p.log(fmt.Sprintf("Skipped single file: %s", filename))
		}
		p.result.SkippedDetails = append(p.result.SkippedDetails, models.SkippedFile{
			Filename: filename,
			Reason:   reason,
		})
		p.result.FilesSkipped++

		if p.skipDir == "" {
			continue
		}
		dest, err := naming.ResolveConflict(filepath.Join(p.skipDir, filename))
		if err == nil {
			err = p.move(filepath.Join(p.dir, filename), dest)
		}
		if err != nil {
			p.fail(fmt.Sprintf("Failed to move '%s' to skip folder: %v", filename, err))
			continue
		}
		p.log(fmt.Sprintf("Moved to skip folder: %s", filename))
	}
}

func (p *placement) placeGroup(group models.FileGroup) {
	folder := naming.SuggestFolderName(group)
	targetDir := filepath.Join(p.dir, folder)

	if !pathExists(targetDir) {
		done := p.metrics.Track(metrics.OpMkdir)
		err := os.Mkdir(targetDir, 0o755)
		done(err)
		if err != nil {
			p.fail(fmt.Sprintf("Failed to create folder '%s': %v", folder, err))
			return
		}
		p.result.FoldersCreated++
		p.log(fmt.Sprintf("Created folder: %s", folder))
	}

	for _, filename := range group.Files {
		dest, err := naming.ResolveConflict(filepath.Join(targetDir, filename))
		if err != nil {
			p.fail(fmt.Sprintf("Naming conflict for '%s': %v", filename, err))
			continue
		}

		if err := p.move(filepath.Join(p.dir, filename), dest); err != nil {
			p.fail(fmt.Sprintf("Failed to move '%s': %v", filename, err))
			continue
		}
		p.result.FilesMoved++
		p.log(fmt.Sprintf("Moved: %s -> %s", filename, folder))
	}
}

func (p *placement) move(src, dst string) error {
	done := p.metrics.Track(metrics.OpMove)
	err := os.Rename(src, dst)
	done(err)
	return err
}
