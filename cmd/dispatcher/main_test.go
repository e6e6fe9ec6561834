package main

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestStart_InvalidConfigFails(t *testing.T) {
	path := writeConfig(t, "queue:\n  batch_size: 0\n")

	assert.Equal(t, 1, start([]string{"-config", path}))
}

func TestStart_UnknownFlag(t *testing.T) {
	assert.Equal(t, 2, start([]string{"-unknown"}))
}

func TestStart_MetricsPortBusyFails(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	port := l.Addr().(*net.TCPAddr).Port

	path := writeConfig(t, "metrics:\n  enabled: true\n  port: "+strconv.Itoa(port)+"\n"+
		"log:\n  level: error\n"+
		"sender:\n  type: log\n")

	assert.Equal(t, 1, start([]string{"-config", path}))
}
