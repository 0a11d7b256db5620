package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger forwards gorm's logging to logr.
type gormLogger struct {
	log logr.Logger
}

func newGormLogger(log logr.Logger) gormlogger.Interface {
	return &gormLogger{log: log}
}

func (g *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return g
}

func (g *gormLogger) Info(_ context.Context, format string, args ...any) {
	g.log.V(1).Info(fmt.Sprintf(format, args...))
}

func (g *gormLogger) Warn(_ context.Context, format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gormLogger) Error(_ context.Context, format string, args ...any) {
	g.log.Error(nil, fmt.Sprintf(format, args...))
}

func (g *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	sql, rows := fc()
	g.log.V(1).Info("gorm trace", "sql", sql, "rows", rows, "elapsed", time.Since(begin), "err", err.Error())
}
