package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benoitkugler/svgtree/internal/config"
)

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggerConfig{Level: "warn", Format: "console"}, zapcore.AddSync(&buf))

	logger.Info("hidden")
	logger.Warn("shown", zap.String("id", "rect1"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "rect1")
}

func TestInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggerConfig{Level: "verbose"}, zapcore.AddSync(&buf))

	logger.Debug("debug")
	logger.Info("info")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "debug")
	assert.Contains(t, buf.String(), "info")
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svgtree.log")
	var console bytes.Buffer
	logger := New(config.LoggerConfig{Level: "info", LogFile: path, MaxSize: 1}, zapcore.AddSync(&console))

	logger.Warn("missing paint server", zap.String("id", "lg"))
	require.NoError(t, logger.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
	assert.Equal(t, "missing paint server", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "svgtree", entry["logger"])
	assert.Equal(t, "lg", entry["id"])
}
