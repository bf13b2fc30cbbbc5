package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxConflictAttempts is the highest numeric suffix tried for a taken name.
const MaxConflictAttempts = 999

// ErrNoFreeName is returned when every suffixed candidate is taken.
var ErrNoFreeName = errors.New("could not find available filename")

// SplitName splits a base name into stem and extension (with the dot).
// Dotfiles such as ".DS_Store" have no extension.
func SplitName(base string) (stem, ext string) {
	ext = filepath.Ext(base)
	if ext == base {
		return base, ""
	}
	return strings.TrimSuffix(base, ext), ext
}

// ResolveConflict returns dest if nothing exists there, otherwise the first
// free "<stem>_<n><ext>" sibling for n in 1..MaxConflictAttempts.
func ResolveConflict(dest string) (string, error) {
	if !exists(dest) {
		return dest, nil
	}

	dir := filepath.Dir(dest)
	stem, ext := SplitName(filepath.Base(dest))
	for i := 1; i <= MaxConflictAttempts; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %s", ErrNoFreeName, MaxConflictAttempts, filepath.Base(dest))
}

// exists treats any directory entry, including a dangling symlink, as taken.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
