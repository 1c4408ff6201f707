package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupWritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Logs")

	logger, closeFn, err := Setup("sentiments", "info", dir)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("file uploaded", "rows", 3)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(filepath.Join(dir, "sentiments.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "file uploaded")
	assert.Contains(t, string(data), "app=sentiments")
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupWithoutDir(t *testing.T) {
	logger, closeFn, err := Setup("sentiments", "debug", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closeFn())
}
