package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNewWithLevelWritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantry.log")

	log, level, err := NewWithLevel(Config{Level: "warn", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Info("dropped")
	level.SetLevel(zapcore.InfoLevel)
	log.Info("kept")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}
