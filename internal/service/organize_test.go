package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphaelgruber/kondo-go/internal/metrics"
	"github.com/raphaelgruber/kondo-go/internal/models"
	"github.com/raphaelgruber/kondo-go/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDir creates a temp directory containing empty files with the given names.
func setupDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
	return dir
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err, "expected %s to exist", path)
	assert.True(t, info.Mode().IsRegular(), "expected %s to be a file", path)
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "expected %s to be gone", path)
}

// logRecorder collects log lines.
type logRecorder struct {
	lines []string
}

func (r *logRecorder) log(msg string) {
	r.lines = append(r.lines, msg)
}

func newService(collector *metrics.Collector) *OrganizeService {
	return NewOrganizeService(similarity.DefaultConfig(), collector)
}

func TestOrganize_GroupsSimilarFiles(t *testing.T) {
	dir := setupDir(t, "IMG_0001.jpg", "IMG_0002.jpg", "notes.txt")
	rec := &logRecorder{}

	result, err := newService(nil).Organize(dir, OrganizeOptions{SortEntries: true, Log: rec.log})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesMoved)
	assert.Equal(t, 1, result.FoldersCreated)
	assert.Equal(t, 1, result.FilesSkipped)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []models.SkippedFile{{Filename: "notes.txt", Reason: models.SkipSingleFile}}, result.SkippedDetails)

	assertFile(t, filepath.Join(dir, "Images", "IMG_0001.jpg"))
	assertFile(t, filepath.Join(dir, "Images", "IMG_0002.jpg"))
	assertFile(t, filepath.Join(dir, "notes.txt"))
	assertMissing(t, filepath.Join(dir, "IMG_0001.jpg"))

	assert.Equal(t, []string{
		"Starting organization in: " + dir,
		"Found 3 files to process",
		"Analyzing file similarities...",
		"Identified 2 file groups",
		"Created folder: Images",
		"Moved: IMG_0001.jpg -> Images",
		"Moved: IMG_0002.jpg -> Images",
		"Skipped single file: notes.txt",
		"Organization complete: 2 files moved, 1 folders created, 1 files skipped",
	}, rec.lines)
}

func TestOrganize_ChatExports(t *testing.T) {
	dir := setupDir(t, "WhatsApp Chat with Alice.txt", "WhatsApp Chat with Bob.txt")

	result, err := newService(nil).Organize(dir, OrganizeOptions{SortEntries: true})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesMoved)
	assertFile(t, filepath.Join(dir, "WhatsAppChats", "WhatsApp Chat with Alice.txt"))
	assertFile(t, filepath.Join(dir, "WhatsAppChats", "WhatsApp Chat with Bob.txt"))
}

func TestOrganize_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	rec := &logRecorder{}

	result, err := newService(nil).Organize(dir, OrganizeOptions{Log: rec.log})
	require.NoError(t, err)

	assert.Equal(t, models.OrganizeResult{SkippedDetails: []models.SkippedFile{}, Errors: []string{}}, *result)
	assert.Contains(t, rec.lines, "Found 0 files to process")
	assert.Contains(t, rec.lines, "Identified 0 file groups")
}

func TestOrganize_SystemFileOnly(t *testing.T) {
	dir := setupDir(t, ".DS_Store")
	rec := &logRecorder{}

	result, err := newService(nil).Organize(dir, OrganizeOptions{Log: rec.log})
	require.NoError(t, err)

	assert.Equal(t, 0, result.FilesMoved)
	assert.Equal(t, 0, result.FoldersCreated)
	assert.Equal(t, 1, result.FilesSkipped)
	assert.Equal(t, []models.SkippedFile{{Filename: ".DS_Store", Reason: models.SkipSystemFile}}, result.SkippedDetails)
	assert.Contains(t, rec.lines, "Skipped system file: .DS_Store")
	assertFile(t, filepath.Join(dir, ".DS_Store"))
}

func TestOrganize_IgnoresSubdirectories(t *testing.T) {
	dir := setupDir(t, "IMG_0001.jpg", "sub/IMG_0002.jpg")

	result, err := newService(nil).Organize(dir, OrganizeOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.FilesMoved)
	assert.Equal(t, 1, result.FilesSkipped)
	assertFile(t, filepath.Join(dir, "sub", "IMG_0002.jpg"))
}

func TestOrganize_ExistingFolderAndConflict(t *testing.T) {
	dir := setupDir(t, "IMG_0001.jpg", "IMG_0002.jpg", "Images/IMG_0001.jpg")
	rec := &logRecorder{}

	result, err := newService(nil).Organize(dir, OrganizeOptions{SortEntries: true, Log: rec.log})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesMoved)
	assert.Equal(t, 0, result.FoldersCreated, "existing folder is reused")
	assert.NotContains(t, rec.lines, "Created folder: Images")

	assertFile(t, filepath.Join(dir, "Images", "IMG_0001.jpg"))
	assertFile(t, filepath.Join(dir, "Images", "IMG_0001_1.jpg"))
	assertFile(t, filepath.Join(dir, "Images", "IMG_0002.jpg"))

	original, err := os.ReadFile(filepath.Join(dir, "Images", "IMG_0001.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "Images/IMG_0001.jpg", string(original), "existing file is never overwritten")
}

func TestOrganize_ConflictExhausted(t *testing.T) {
	names := []string{"IMG_0001.jpg", "IMG_0002.jpg", "Images/IMG_0001.jpg"}
	for i := 1; i <= 999; i++ {
		names = append(names, fmt.Sprintf("Images/IMG_0001_%d.jpg", i))
	}
	dir := setupDir(t, names...)

	result, err := newService(nil).Organize(dir, OrganizeOptions{SortEntries: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesMoved)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Naming conflict for 'IMG_0001.jpg'")
	assertFile(t, filepath.Join(dir, "IMG_0001.jpg"))
	assertFile(t, filepath.Join(dir, "Images", "IMG_0002.jpg"))
}

func TestOrganize_GroupFolderIsAFile(t *testing.T) {
	dir := setupDir(t, "IMG_0001.jpg", "IMG_0002.jpg")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Images"), nil, 0o644))

	result, err := newService(nil).Organize(dir, OrganizeOptions{SortEntries: true})
	require.NoError(t, err)

	// "Images" itself is a file and joins the listing, but scores too low to group.
	assert.Equal(t, 0, result.FilesMoved)
	assert.Len(t, result.Errors, 2)
	assertFile(t, filepath.Join(dir, "IMG_0001.jpg"))
	assertFile(t, filepath.Join(dir, "IMG_0002.jpg"))
}

func TestOrganize_MoveSkipped(t *testing.T) {
	dir := setupDir(t, "IMG_0001.jpg", "IMG_0002.jpg", "notes.txt", ".DS_Store")
	rec := &logRecorder{}

	result, err := newService(nil).Organize(dir, OrganizeOptions{SortEntries: true, MoveSkipped: true, Log: rec.log})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesMoved)
	assert.Equal(t, 2, result.FilesSkipped)
	assert.Empty(t, result.Errors)

	skipDir := filepath.Join(dir, SkipFolderName)
	assertFile(t, filepath.Join(skipDir, "notes.txt"))
	assertFile(t, filepath.Join(skipDir, ".DS_Store"))
	assertMissing(t, filepath.Join(dir, "notes.txt"))
	assert.Contains(t, rec.lines, "Created skip folder: "+skipDir)
	assert.Contains(t, rec.lines, "Moved to skip folder: notes.txt")
}

func TestOrganize_MoveSkippedConflict(t *testing.T) {
	dir := setupDir(t, "notes.txt", SkipFolderName+"/notes.txt")

	result, err := newService(nil).Organize(dir, OrganizeOptions{MoveSkipped: true})
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assertFile(t, filepath.Join(dir, SkipFolderName, "notes.txt"))
	assertFile(t, filepath.Join(dir, SkipFolderName, "notes_1.txt"))
}

func TestOrganize_SkipFolderIsAFile(t *testing.T) {
	dir := setupDir(t, SkipFolderName)

	result, err := newService(nil).Organize(dir, OrganizeOptions{MoveSkipped: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesSkipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Failed to create skip folder")
	assertFile(t, filepath.Join(dir, SkipFolderName))
}

func TestOrganize_ListingErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		result, err := newService(nil).Organize(filepath.Join(t.TempDir(), "missing"), OrganizeOptions{})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("not a directory", func(t *testing.T) {
		dir := setupDir(t, "file.txt")
		_, err := newService(nil).Organize(filepath.Join(dir, "file.txt"), OrganizeOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotDirectory))
	})
}

func TestOrganize_ProgressAndMetrics(t *testing.T) {
	dir := setupDir(t, "IMG_0001.jpg", "IMG_0002.jpg", "notes.txt")
	collector := metrics.NewCollector()

	var progress [][2]int
	_, err := newService(collector).Organize(dir, OrganizeOptions{
		SortEntries: true,
		Workers:     4,
		OnProgress:  func(done, total int) { progress = append(progress, [2]int{done, total}) },
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, progress)

	snap := collector.Snapshot()
	require.NotNil(t, snap.ListDir)
	require.NotNil(t, snap.Cluster)
	require.NotNil(t, snap.Mkdir)
	require.NotNil(t, snap.Move)
	assert.Equal(t, int64(1), snap.ListDir.Count)
	assert.Equal(t, int64(1), snap.Mkdir.Count)
	assert.Equal(t, int64(2), snap.Move.Count)
	assert.Equal(t, int64(0), snap.Move.Failures)
}

func TestPlan_DoesNotMove(t *testing.T) {
	dir := setupDir(t, "IMG_0001.jpg", "IMG_0002.jpg", "notes.txt", ".DS_Store")

	plan, err := newService(nil).Plan(dir, OrganizeOptions{SortEntries: true})
	require.NoError(t, err)

	assert.Equal(t, dir, plan.Directory)
	assert.Equal(t, 4, plan.TotalFiles)
	require.Len(t, plan.Groups, 1)
	assert.Equal(t, "Images", plan.Groups[0].Folder)
	assert.Equal(t, []string{"IMG_0001.jpg", "IMG_0002.jpg"}, plan.Groups[0].Group.Files)
	assert.ElementsMatch(t, []models.SkippedFile{
		{Filename: "notes.txt", Reason: models.SkipSingleFile},
		{Filename: ".DS_Store", Reason: models.SkipSystemFile},
	}, plan.Skipped)

	assertFile(t, filepath.Join(dir, "IMG_0001.jpg"))
	assertMissing(t, filepath.Join(dir, "Images"))
}

func TestPlace_UsesGivenGroups(t *testing.T) {
	dir := setupDir(t, "a.txt", "b.txt")
	groups := []models.FileGroup{{RepresentativeName: "report", Files: []string{"a.txt", "b.txt"}, AvgSimilarity: 0.9}}

	result := newService(nil).Place(dir, groups, OrganizeOptions{})

	assert.Equal(t, 2, result.FilesMoved)
	assertFile(t, filepath.Join(dir, "Reports", "a.txt"))
	assertFile(t, filepath.Join(dir, "Reports", "b.txt"))
}
