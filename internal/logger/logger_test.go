package logger

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
	"go.uber.org/zap/zapcore"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestBuild_WritesToStdoutAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatcher.log")
	var stdout bytes.Buffer

	l, closeFn, err := build(Config{File: path, MaxSize: 1}, zapcore.InfoLevel, zapcore.AddSync(&stdout))
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("lane started", zap.Int("lane", 3))
	require.NoError(t, l.Sync())
	require.NoError(t, closeFn())

	assert.NotContains(t, stdout.String(), "hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &entry))
	assert.Equal(t, "lane started", entry["msg"])
	assert.Equal(t, float64(3), entry["lane"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "lane started"))
}

func TestBuild_StdoutOnly(t *testing.T) {
	var stdout bytes.Buffer

	l, closeFn, err := build(Config{}, zapcore.WarnLevel, zapcore.AddSync(&stdout))
	require.NoError(t, err)

	l.Info("skipped")
	l.Warn("kept")
	require.NoError(t, closeFn())

	assert.NotContains(t, stdout.String(), "skipped")
	assert.Contains(t, stdout.String(), "kept")
}
