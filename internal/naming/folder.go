package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/raphaelgruber/kondo-go/internal/models"
)

// FallbackFolderName is used when nothing usable survives cleanup.
const FallbackFolderName = "SimilarFiles"

// folderRule maps a lower-cased substring to a canonical folder name.
type folderRule struct {
	pattern string
	folder  string
}

// folderRules are evaluated in order; the first match wins.
var folderRules = []folderRule{
	{"whatsapp chat", "WhatsAppChats"},
	{"whatsapp image", "WhatsAppImages"},
	{"whatsapp", "WhatsApp"},
	{"screenshot", "Screenshots"},
	{"screen shot", "Screenshots"},
	{"screencapture", "Screenshots"},
	{"chatgpt", "ChatGPTImages"},
	{"document", "Documents"},
	{"report", "Reports"},
	{"invoice", "Invoices"},
	{"receipt", "Receipts"},
	{"img_", "Images"},
	{"dsc", "CameraPhotos"},
	{"dcim", "CameraPhotos"},
	{"photo", "Photos"},
	{"pic", "Pictures"},
	{"vid_", "Videos"},
	{"video", "Videos"},
	{"mov_", "Videos"},
	{"download", "Downloads"},
	{"backup", "Backups"},
	{"archive", "Archives"},
}

// SuggestFolderName returns the destination folder for group. It never
// returns an empty string.
func SuggestFolderName(group models.FileGroup) string {
	name := group.RepresentativeName
	if name == "" {
		name = FallbackFolderName
	}

	if folder := cleanFolderName(name); folder != "" {
		return folder
	}
	return FallbackFolderName
}

func cleanFolderName(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range folderRules {
		if strings.Contains(lower, rule.pattern) {
			return rule.folder
		}
	}

	result := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r) || r == ' ' {
			return r
		}
		return -1
	}, name)

	result = removeDates(result)
	result = removeVersion(result)
	result = removeNumberSuffix(result)
	result = capitalize(result)

	result = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return -1
		}
		return r
	}, result)

	return strings.TrimSpace(result)
}

// removeDates drops runs that start with four digits and span at least
// eight characters, plus any digits, '-' or '_' right after them.
func removeDates(s string) string {
	chars := []rune(s)
	var out strings.Builder
	for i := 0; i < len(chars); {
		if i+7 < len(chars) && allDigits(chars[i:i+4]) {
			i += 8
			for i < len(chars) && (unicode.IsNumber(chars[i]) || chars[i] == '-' || chars[i] == '_') {
				i++
			}
			continue
		}
		out.WriteRune(chars[i])
		i++
	}
	return out.String()
}

// removeVersion cuts a trailing "v<digits>" marker at the last 'v'.
func removeVersion(s string) string {
	pos := strings.LastIndexByte(s, 'v')
	if pos <= 0 {
		return s
	}
	for _, r := range s[pos+1:] {
		if !unicode.IsNumber(r) && r != '.' && r != '_' && r != '-' {
			return s
		}
	}
	return s[:pos]
}

func removeNumberSuffix(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsNumber(r) || r == '_' || r == '-' || r == ' '
	})
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
