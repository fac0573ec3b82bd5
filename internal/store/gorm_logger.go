package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feral-file/trait-inventory/internal/logger"
)

type gormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger returns a gorm logger that writes through the service zap logger.
// Record-not-found errors are not logged; lookups treat them as a normal outcome.
func NewGormLogger(level gormlogger.LogLevel, slowThreshold time.Duration) gormlogger.Interface {
	return &gormLogger{
		level:         level,
		slowThreshold: slowThreshold,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.InfoCtx(ctx, fmt.Sprintf(msg, args...), zap.String("component", "gorm"))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.WarnCtx(ctx, fmt.Sprintf(msg, args...), zap.String("component", "gorm"))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.ErrorCtx(ctx, fmt.Errorf(msg, args...), zap.String("component", "gorm"))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !isExpectedQueryError(err):
		sql, rows := fc()
		logger.ErrorCtx(ctx, err,
			zap.String("component", "gorm"),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.WarnCtx(ctx, "Slow SQL query",
			zap.String("component", "gorm"),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", l.slowThreshold),
		)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		logger.DebugCtx(ctx, "SQL query",
			zap.String("component", "gorm"),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	}
}

// isExpectedQueryError reports errors the store turns into business outcomes
func isExpectedQueryError(err error) bool {
	return errors.Is(err, gormlogger.ErrRecordNotFound) ||
		isUniqueViolation(err) ||
		isInvalidID(err)
}
