package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_FileOnly(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "kondo.log")

	logger, cleanup := SetupLogger(logFile, slog.LevelInfo, nil)
	logger.Info("Moved: a.jpg -> Images", "run_id", "abcd1234")
	logger.Debug("hidden")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Moved: a.jpg -> Images", entry["msg"])
	assert.Equal(t, "abcd1234", entry["run_id"])
}

func TestSetupLogger_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer

	logger, cleanup := SetupLogger("", slog.LevelDebug, &console)
	logger.Debug("clustered files", "groups", 2)
	require.NoError(t, cleanup())

	assert.Contains(t, console.String(), "clustered files")
	assert.Contains(t, console.String(), "groups=2")
}

func TestSetupLogger_Disabled(t *testing.T) {
	logger, cleanup := SetupLogger("", slog.LevelInfo, nil)
	logger.Info("dropped")
	assert.NoError(t, cleanup())
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var console, file bytes.Buffer
	logger := SetupLoggerWithWriters(&console, &file, slog.LevelWarn)

	logger.Info("ignored")
	logger.Warn("config warning", "warning", "weights")

	assert.NotContains(t, console.String(), "ignored")
	assert.Contains(t, console.String(), "config warning")
	assert.Contains(t, file.String(), `"warning":"weights"`)
}
