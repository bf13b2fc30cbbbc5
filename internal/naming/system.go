package naming

import "strings"

// DefaultSkipPatterns identify operating-system and tooling files by substring.
var DefaultSkipPatterns = []string{
	".DS_Store",
	"Thumbs.db",
	".git",
	".gitignore",
	"desktop.ini",
	".localized",
	"~$",
}

// IsSystemFile reports whether filename contains one of the default skip patterns.
func IsSystemFile(filename string) bool {
	return MatchesAny(filename, DefaultSkipPatterns)
}

// MatchesAny reports whether filename contains any of patterns.
func MatchesAny(filename string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(filename, p) {
			return true
		}
	}
	return false
}
