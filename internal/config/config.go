// Package config loads kondo's settings from kondo.toml and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/raphaelgruber/kondo-go/internal/models"
	"github.com/raphaelgruber/kondo-go/internal/naming"
	"github.com/raphaelgruber/kondo-go/internal/similarity"
)

const (
	// FileName is the configuration file inside the config directory.
	FileName = "kondo.toml"
	// LogFileName is the default log file inside the config directory.
	LogFileName = "kondo.log"
	// LogFileNone disables the log file.
	LogFileNone = "none"
)

// Config holds all configuration values.
type Config struct {
	// Logging
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level,omitempty"`

	// EnableSmartGrouping makes the default mode filename grouping.
	EnableSmartGrouping bool `toml:"enable_smart_grouping"`

	// Workers bounds concurrent scoring and categorizing (0 = default).
	Workers int `toml:"workers,omitempty"`

	// SkipPatterns exclude files from categorizing by substring.
	SkipPatterns []string `toml:"skip_patterns"`

	Similarity similarity.Config          `toml:"similarity_config"`
	Categories map[string]models.Category `toml:"categories"`

	// Path is the file this config was read from, if any.
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "INFO",
		SkipPatterns: []string{".DS_Store", "Thumbs.db", ".git", ".gitignore", "desktop.ini", ".localized"},
		Similarity:   similarity.DefaultConfig(),
		Categories:   DefaultCategories(),
	}
}

// Dir returns the configuration directory: %APPDATA%\kondo on Windows,
// otherwise $XDG_CONFIG_HOME/kondo or ~/.config/kondo.
func Dir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("could not determine APPDATA directory")
		}
		return filepath.Join(appData, "kondo"), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kondo"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "kondo"), nil
}

// Path returns the config file location. KONDO_CONFIG overrides it.
func Path() (string, error) {
	if p := os.Getenv("KONDO_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file, creating a default one when it does not exist,
// then applies environment overrides. Problems are logged and the defaults
// are used; Load never fails.
func Load() Config {
	return load(true)
}

// Read is Load without creating a missing config file.
func Read() Config {
	return load(false)
}

func load(create bool) Config {
	cfg := Default()

	path, err := Path()
	if err != nil {
		slog.Warn("could not determine config path", "error", err)
		return applyEnv(cfg)
	}

	loaded, err := LoadFrom(path)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, fs.ErrNotExist):
		cfg.LogFile = DefaultLogFile(path)
		if !create {
			break
		}
		if err := WriteDefault(path, cfg); err != nil {
			slog.Warn("could not create config file", "path", path, "error", err)
			break
		}
		cfg.Path = path
		slog.Debug("created default config", "path", path)
	default:
		slog.Warn("could not load config file, using defaults", "path", path, "error", err)
	}

	return applyEnv(cfg)
}

// LoadFrom parses the file at path on top of the defaults. A relative
// log_file is resolved against the file's directory; "none" disables it.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	cfg.Categories = nil

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Debug("ignoring unknown config keys", "path", path, "keys", fmt.Sprint(undecoded))
	}

	if cfg.Categories == nil {
		cfg.Categories = DefaultCategories()
	}
	cfg.Path = path
	cfg.LogFile = resolveLogFile(cfg.LogFile, filepath.Dir(path))
	return cfg, nil
}

// DefaultLogFile returns the log file that sits next to the config file at path.
func DefaultLogFile(path string) string {
	return filepath.Join(filepath.Dir(path), LogFileName)
}

func resolveLogFile(logFile, baseDir string) string {
	if logFile == "" || strings.EqualFold(logFile, LogFileNone) {
		return ""
	}
	if !filepath.IsAbs(logFile) {
		return filepath.Join(baseDir, logFile)
	}
	return logFile
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("KONDO_LOG_FILE"); v != "" {
		cfg.LogFile = resolveLogFile(v, ".")
	}
	cfg.LogLevel = getEnv("KONDO_LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("KONDO_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		} else {
			slog.Warn("ignoring invalid KONDO_WORKERS", "value", v)
		}
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Level returns the configured slog level.
func (c Config) Level() slog.Level {
	return parseLogLevel(c.LogLevel)
}

// SystemSkipPatterns returns the configured skip patterns, or the built-in
// system-file list when none are configured.
func (c Config) SystemSkipPatterns() []string {
	if len(c.SkipPatterns) == 0 {
		return naming.DefaultSkipPatterns
	}
	return c.SkipPatterns
}

// Validate checks value ranges.
func (c Config) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"similarity_config.levenshtein_threshold", c.Similarity.LevenshteinThreshold},
		{"similarity_config.jaccard_threshold", c.Similarity.JaccardThreshold},
		{"similarity_config.levenshtein_weight", c.Similarity.LevenshteinWeight},
		{"similarity_config.jaccard_weight", c.Similarity.JaccardWeight},
		{"similarity_config.min_similarity_score", c.Similarity.MinSimilarityScore},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) || f.val < 0 || f.val > 1 {
			return &ConfigError{Field: f.name, Message: fmt.Sprintf("must be between 0.0 and 1.0, got %g", f.val)}
		}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	return nil
}

// Warnings returns non-fatal configuration problems.
func (c Config) Warnings() []string {
	var warnings []string
	sum := c.Similarity.LevenshteinWeight + c.Similarity.JaccardWeight
	if math.Abs(sum-1.0) > 1e-9 {
		warnings = append(warnings, fmt.Sprintf("levenshtein_weight + jaccard_weight = %.2f, expected 1.0", sum))
	}
	return warnings
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
