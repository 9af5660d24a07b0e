package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/quizvault/internal/config"
)

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{LogConfig: config.LogConfig{Level: "warn"}, Console: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", zap.String("subject", "water"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "water")
}

func TestFileCoreWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizvault.log")
	log, err := New(Options{
		LogConfig: config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1},
		Quiet:     true,
	})
	require.NoError(t, err)

	log.Debug("saved result", zap.String("result_id", "r-1"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "saved result", entry["msg"])
	assert.Equal(t, "r-1", entry["result_id"])
}

func TestQuietWithoutFileIsNop(t *testing.T) {
	log, err := New(Options{Quiet: true})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.ErrorLevel))
}

func TestBadLevel(t *testing.T) {
	_, err := New(Options{LogConfig: config.LogConfig{Level: "loud"}})
	assert.Error(t, err)
}
