package handlers

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
)

func TestLogFilePath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		logFile string
		want    string
	}{
		{name: "relative to run directory", logFile: "test-output.log", want: filepath.Join(".cluster", "test-output.log")},
		{name: "absolute", logFile: "/var/log/chaos.log", want: "/var/log/chaos.log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &config.Config{DataDir: ".cluster", LogFile: tt.logFile}
			assert.Equal(t, tt.want, LogFilePath(cfg))
		})
	}
}

func TestNewLogger_TeesToFile(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{DataDir: t.TempDir(), LogFile: "run.log"}
	var out bytes.Buffer

	log, closer, err := newLogger(cfg, &out)
	require.NoError(t, err)
	log.Info("cluster requested", "id", "p-1")
	log.V(1).Info("request", "path", "/api")
	require.NoError(t, closer.Close())

	line := strings.TrimSpace(out.String())
	require.NotEmpty(t, line)
	assert.NotContains(t, line, "/api", "V(1) is off without DEBUG")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry), "non-terminal output is JSON")
	assert.Equal(t, "cluster requested", entry["msg"])
	assert.Equal(t, "p-1", entry["id"])

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, "run.log"))
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(data))

	info, err := os.Stat(filepath.Join(cfg.DataDir, "run.log"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewLogger_Debug(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{DataDir: t.TempDir(), LogFile: "run.log", Debug: true}
	var out bytes.Buffer

	log, closer, err := newLogger(cfg, &out)
	require.NoError(t, err)
	log.V(1).Info("request", "path", "/api")
	require.NoError(t, closer.Close())

	assert.Contains(t, out.String(), "/api")
}

func TestNewLogger_BadPath(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{DataDir: filepath.Join(t.TempDir(), "missing"), LogFile: "run.log"}

	_, _, err := newLogger(cfg, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.False(t, isTerminal(f))
}
