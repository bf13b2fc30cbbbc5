package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphaelgruber/kondo-go/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
log_file = "logs/kondo.log"
log_level = "debug"
enable_smart_grouping = true
workers = 8

[similarity_config]
min_similarity_score = 0.8

[categories.music]
extensions = ["mp3", "flac"]
folder_name = "Music"
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "logs", "kondo.log"), cfg.LogFile)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.True(t, cfg.EnableSmartGrouping)
	assert.Equal(t, 8, cfg.Workers)

	// Unset similarity keys keep their defaults
	assert.Equal(t, 0.8, cfg.Similarity.MinSimilarityScore)
	assert.Equal(t, similarity.DefaultConfig().LevenshteinWeight, cfg.Similarity.LevenshteinWeight)

	// Configured categories replace the defaults
	require.Len(t, cfg.Categories, 1)
	assert.Equal(t, "Music", cfg.Categories["music"].FolderName)
}

func TestLoadFrom_DefaultsWhenSparse(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, `log_file = "none"`))
	require.NoError(t, err)

	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, similarity.DefaultConfig(), cfg.Similarity)
	assert.Equal(t, DefaultCategories(), cfg.Categories)
	assert.NotEmpty(t, cfg.SkipPatterns)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("invalid toml", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, `log_level = [`))
		require.Error(t, err)
		assert.False(t, errors.Is(err, fs.ErrNotExist))
	})
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	t.Setenv("KONDO_CONFIG", path)
	t.Setenv("KONDO_LOG_FILE", "")
	t.Setenv("KONDO_LOG_LEVEL", "")
	t.Setenv("KONDO_WORKERS", "")

	cfg := Load()
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, DefaultLogFile(path), cfg.LogFile)

	// The written file loads back to the same settings
	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Similarity, loaded.Similarity)
	assert.Equal(t, cfg.Categories, loaded.Categories)
	assert.Equal(t, cfg.LogFile, loaded.LogFile)
}

func TestRead_LeavesMissingFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	t.Setenv("KONDO_CONFIG", path)
	t.Setenv("KONDO_LOG_FILE", "")
	t.Setenv("KONDO_LOG_LEVEL", "")
	t.Setenv("KONDO_WORKERS", "")

	cfg := Read()
	assert.Empty(t, cfg.Path)
	assert.Equal(t, DefaultLogFile(path), cfg.LogFile)
	assert.Equal(t, similarity.DefaultConfig(), cfg.Similarity)
	assert.NoFileExists(t, path)
	assert.NoDirExists(t, filepath.Dir(path))
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `log_level = "INFO"`)
	t.Setenv("KONDO_CONFIG", path)
	t.Setenv("KONDO_LOG_FILE", "none")
	t.Setenv("KONDO_LOG_LEVEL", "ERROR")
	t.Setenv("KONDO_WORKERS", "3")

	cfg := Load()
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, slog.LevelError, cfg.Level())
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_InvalidFileFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, `enable_smart_grouping = "yes please"`)
	t.Setenv("KONDO_CONFIG", path)
	t.Setenv("KONDO_LOG_FILE", "")
	t.Setenv("KONDO_LOG_LEVEL", "")
	t.Setenv("KONDO_WORKERS", "")

	cfg := Load()
	assert.False(t, cfg.EnableSmartGrouping)
	assert.Equal(t, similarity.DefaultConfig(), cfg.Similarity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"score above one", func(c *Config) { c.Similarity.MinSimilarityScore = 1.2 }, "min_similarity_score"},
		{"negative weight", func(c *Config) { c.Similarity.JaccardWeight = -0.1 }, "jaccard_weight"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"boundaries allowed", func(c *Config) {
			c.Similarity.MinSimilarityScore = 0
			c.Similarity.LevenshteinWeight = 1
			c.Similarity.JaccardWeight = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Contains(t, cfgErr.Field, tt.wantErr)
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Warnings())

	cfg.Similarity.JaccardWeight = 0.9
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "1.50")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestSystemSkipPatterns(t *testing.T) {
	cfg := Default()
	cfg.SkipPatterns = nil
	assert.Contains(t, cfg.SystemSkipPatterns(), ".DS_Store")

	cfg.SkipPatterns = []string{"tmp"}
	assert.Equal(t, []string{"tmp"}, cfg.SystemSkipPatterns())
}

func TestEncode_NoneLogFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()))
	assert.Contains(t, buf.String(), `log_file = "none"`)
	assert.Contains(t, buf.String(), "[similarity_config]")
}

func TestWriteDefault_KeepsExistingFile(t *testing.T) {
	path := writeConfig(t, "workers = 2\n")

	err := WriteDefault(path, Default())
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "workers = 2\n", string(data))
}
