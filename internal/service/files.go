// Package service provides the kondo organize operations: similarity-based
// placement, read-only planning and extension-based categorizing.
package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/samber/lo"
)

// ErrNotDirectory is returned when the target path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ListFiles returns the names of the regular files directly inside dir.
// Names keep the order the operating system returns them in unless sorted
// is set. Subdirectories and names that are not valid UTF-8 are left out.
func ListFiles(dir string, sorted bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	names := lo.FilterMap(entries, func(e fs.DirEntry, _ int) (string, bool) {
		return e.Name(), utf8.ValidString(e.Name()) && isRegularFile(dir, e)
	})
	if sorted {
		slices.Sort(names)
	}
	return names, nil
}

// isRegularFile follows symlinks so a link to a file counts as a file.
func isRegularFile(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// isDir reports whether path exists and is a directory, following symlinks.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
