package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("loud", "console", "")
	require.Error(t, err)
}

func TestNewJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashquiz.log")

	log, err := New("info", "json", path)
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("session started")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1, "debug must be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "session started", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewConsoleToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashquiz.log")

	log, err := New("debug", "console", path)
	require.NoError(t, err)
	log.Debug("answer graded")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "answer graded")
	assert.Contains(t, string(raw), "DEBUG")
}
