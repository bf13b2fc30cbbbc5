package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/raphaelgruber/kondo-go/internal/models"
)

const defaultHeader = `# Kondo File Organizer Configuration
#
# enable_smart_grouping: group files by filename similarity by default.
# log_file: absolute, relative to this directory, or "none".
#
# [similarity_config]
#   levenshtein_weight + jaccard_weight should add up to 1.0.
#   min_similarity_score is the inclusive score two files need to share a folder.
#   levenshtein_threshold and jaccard_threshold are reserved.
#
# [categories.<key>]
#   extensions: file extensions without the dot
#   folder_name: destination folder (defaults to the key)

`

// DefaultCategories returns the built-in extension categories.
func DefaultCategories() map[string]models.Category {
	return map[string]models.Category{
		"images": {
			Extensions: []string{"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "tiff", "ico", "heic", "raw", "cr2", "nef", "orf", "sr2"},
			FolderName: "Images",
		},
		"videos": {
			Extensions: []string{"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v", "3gp", "mpg", "mpeg", "vob"},
			FolderName: "Videos",
		},
		"audio": {
			Extensions: []string{"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a", "opus", "aiff", "ape", "alac"},
			FolderName: "Music",
		},
		"documents": {
			Extensions: []string{"pdf", "doc", "docx", "txt", "rtf", "odt", "pages", "tex", "md", "epub", "mobi"},
			FolderName: "Documents",
		},
		"spreadsheets": {
			Extensions: []string{"xls", "xlsx", "csv", "ods", "numbers"},
			FolderName: "Spreadsheets",
		},
		"presentations": {
			Extensions: []string{"ppt", "pptx", "odp", "key"},
			FolderName: "Presentations",
		},
		"archives": {
			Extensions: []string{"zip", "rar", "7z", "tar", "gz", "bz2", "xz", "dmg", "pkg", "deb", "rpm", "iso"},
			FolderName: "Archives",
		},
		"code": {
			Extensions: []string{"rs", "py", "js", "ts", "jsx", "tsx", "html", "css", "scss", "sass", "cpp", "c", "h", "hpp", "java", "go", "php", "rb", "swift", "kt", "dart", "scala", "sh", "bat", "ps1", "r", "lua", "vim"},
			FolderName: "Code",
		},
		"data": {
			Extensions: []string{"json", "xml", "yaml", "yml", "toml", "ini", "cfg", "conf", "sql", "db", "sqlite", "mdb"},
			FolderName: "Data",
		},
		"executables": {
			Extensions: []string{"exe", "msi", "app", "deb", "rpm", "dmg", "pkg", "appimage", "run"},
			FolderName: "Applications",
		},
		"fonts": {
			Extensions: []string{"ttf", "otf", "woff", "woff2", "eot"},
			FolderName: "Fonts",
		},
		"ebooks": {
			Extensions: []string{"epub", "mobi", "azw", "azw3", "cbr", "cbz"},
			FolderName: "Ebooks",
		},
		"3d_models": {
			Extensions: []string{"obj", "fbx", "stl", "blend", "dae", "3ds", "max", "gltf", "glb"},
			FolderName: "3D Models",
		},
		"design": {
			Extensions: []string{"psd", "ai", "xd", "sketch", "fig", "indd", "cdr"},
			FolderName: "Design Files",
		},
	}
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	out := cfg
	if out.LogFile == "" {
		out.LogFile = LogFileNone
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// WriteDefault writes cfg with an explanatory header to path, creating the
// parent directory. An existing file is left alone.
func WriteDefault(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(defaultHeader)
	if err := Encode(&buf, cfg); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("write config file: %w", err)
	}
	return f.Close()
}
