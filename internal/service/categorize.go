package service

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/raphaelgruber/kondo-go/internal/metrics"
	"github.com/raphaelgruber/kondo-go/internal/models"
	"github.com/raphaelgruber/kondo-go/internal/naming"
	"golang.org/x/sync/errgroup"
)

// ExtrasFolder receives files whose extension has no category.
const ExtrasFolder = "Extras"

// CategorizeOptions configures an extension-based run.
type CategorizeOptions struct {
	// DryRun reports where files would go without creating or moving anything.
	DryRun bool
	// Workers bounds the number of files processed concurrently (default 4).
	Workers int
	// SkipPatterns are substrings that exclude a filename.
	SkipPatterns []string
	SortEntries  bool
	// Log receives progress messages; calls are serialized.
	Log models.LogFunc
}

// CategorizeService moves files into folders chosen by their extension.
type CategorizeService struct {
	extMap  map[string]string
	metrics *metrics.Collector
}

// NewCategorizeService creates a categorizer for categories. collector may be nil.
func NewCategorizeService(categories map[string]models.Category, collector *metrics.Collector) *CategorizeService {
	return &CategorizeService{
		extMap:  BuildExtensionMap(categories),
		metrics: collector,
	}
}

// BuildExtensionMap returns lower-cased extension -> folder name. When two
// categories claim an extension, the one whose key sorts first wins.
func BuildExtensionMap(categories map[string]models.Category) map[string]string {
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	extMap := make(map[string]string)
	for _, key := range keys {
		cat := categories[key]
		folder := cat.FolderName
		if folder == "" {
			folder = key
		}
		for _, ext := range cat.Extensions {
			ext = strings.ToLower(strings.TrimPrefix(ext, "."))
			if _, taken := extMap[ext]; !taken {
				extMap[ext] = folder
			}
		}
	}
	return extMap
}

// FolderFor returns the destination folder for filename.
func (s *CategorizeService) FolderFor(filename string) string {
	_, ext := naming.SplitName(filename)
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = "unknown"
	}
	if folder, ok := s.extMap[ext]; ok {
		return folder
	}
	return ExtrasFolder
}

// Categorize moves every regular file in dir into its category folder.
// Per-file failures are counted and recorded; only a listing failure aborts.
func (s *CategorizeService) Categorize(dir string, opts CategorizeOptions) (*models.CategorizeResult, error) {
	done := s.metrics.Track(metrics.OpListDir)
	filenames, err := ListFiles(dir, opts.SortEntries)
	done(err)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	run := &categorizeRun{
		svc:    s,
		dir:    dir,
		opts:   opts,
		locks:  make(map[string]*sync.Mutex),
		made:   make(map[string]bool),
		result: &models.CategorizeResult{CategoryCounts: map[string]int{}, Errors: []string{}},
	}
	run.logf(fmt.Sprintf("Found %d files to categorize", len(filenames)))

	var eg errgroup.Group
	eg.SetLimit(workers)
	for _, name := range filenames {
		eg.Go(func() error {
			run.process(name)
			return nil
		})
	}
	_ = eg.Wait()

	r := run.result
	run.logf(fmt.Sprintf("Categorize complete: %d files organized, %d skipped, %d failed",
		r.FilesOrganized, r.FilesSkipped, r.FilesFailed))
	return r, nil
}

// categorizeRun is the shared state of one Categorize call. mu guards
// result and the log sink; locks serialize work per destination folder.
type categorizeRun struct {
	svc  *CategorizeService
	dir  string
	opts CategorizeOptions

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	made   map[string]bool
	result *models.CategorizeResult
}

func (r *categorizeRun) logf(msg string) {
	if r.opts.Log == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.Log(msg)
}

func (r *categorizeRun) folderLock(folder string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[folder]
	if !ok {
		l = &sync.Mutex{}
		r.locks[folder] = l
	}
	return l
}

func (r *categorizeRun) record(fn func(res *models.CategorizeResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.result)
}

func (r *categorizeRun) failed(msg string) {
	r.logf(msg)
	r.record(func(res *models.CategorizeResult) {
		res.FilesFailed++
		res.Errors = append(res.Errors, msg)
	})
}

func (r *categorizeRun) process(name string) {
	if naming.MatchesAny(name, r.opts.SkipPatterns) {
		r.logf(fmt.Sprintf("Skipped: %s", name))
		r.record(func(res *models.CategorizeResult) { res.FilesSkipped++ })
		return
	}

	folder := r.svc.FolderFor(name)
	targetDir := filepath.Join(r.dir, folder)

	lock := r.folderLock(folder)
	lock.Lock()
	defer lock.Unlock()

	dest, err := naming.ResolveConflict(filepath.Join(targetDir, name))
	if err != nil {
		r.failed(fmt.Sprintf("Naming conflict for '%s': %v", name, err))
		return
	}

	if !r.opts.DryRun {
		if err := r.ensureDir(folder, targetDir); err != nil {
			r.failed(fmt.Sprintf("Failed to create folder '%s': %v", folder, err))
			return
		}
		done := r.svc.metrics.Track(metrics.OpMove)
		err := os.Rename(filepath.Join(r.dir, name), dest)
		done(err)
		if err != nil {
			r.failed(fmt.Sprintf("Failed to move '%s': %v", name, err))
			return
		}
	}

	r.logf(fmt.Sprintf("%s → %s", name, folder))
	r.record(func(res *models.CategorizeResult) {
		res.FilesOrganized++
		res.CategoryCounts[folder]++
	})
}

// ensureDir creates targetDir at most once per run. Caller holds the folder lock.
func (r *categorizeRun) ensureDir(folder, targetDir string) error {
	r.mu.Lock()
	made := r.made[folder]
	r.mu.Unlock()
	if made {
		return nil
	}

	if !isDir(targetDir) {
		done := r.svc.metrics.Track(metrics.OpMkdir)
		err := os.MkdirAll(targetDir, 0o755)
		done(err)
		if err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.made[folder] = true
	r.mu.Unlock()
	return nil
}
