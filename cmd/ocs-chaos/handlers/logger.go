package handlers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
)

// LogFilePath returns where the run log is written. A relative LOG_FILE is
// taken relative to the run directory.
func LogFilePath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.LogFile) {
		return cfg.LogFile
	}
	return filepath.Join(cfg.DataDir, cfg.LogFile)
}

// newLogger returns a logger writing to w and appending to the run log file.
// Console encoding is used when w is a terminal, JSON otherwise. DEBUG
// enables V(1) messages.
func newLogger(cfg *config.Config, w io.Writer) (logr.Logger, io.Closer, error) {
	path := LogFilePath(cfg)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304 -- path is from the run configuration
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	log := zap.New(
		zap.WriteTo(io.MultiWriter(w, f)),
		zap.UseDevMode(isTerminal(w)),
		zap.Level(level),
	)
	return log, f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
