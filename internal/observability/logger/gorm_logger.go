package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures the GORM zap logger.
type GormLoggerConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
}

// DefaultGormLoggerConfig keeps the state store quiet unless something fails.
func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:         gormlogger.Warn,
		SlowThreshold: 100 * time.Millisecond,
	}
}

// GormLogger routes GORM output of the SQLite state store through zap.
// Missing rows are expected on first start and never logged as errors.
type GormLogger struct {
	log           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(log *zap.Logger, cfg GormLoggerConfig) *GormLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &GormLogger{
		log:           log.Named("gorm"),
		level:         cfg.Level,
		slowThreshold: cfg.SlowThreshold,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	l.emit(gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	l.emit(gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	l.emit(gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		l.query(zapcore.ErrorLevel, fc, elapsed, err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		l.query(zapcore.WarnLevel, fc, elapsed, nil)
	case l.level >= gormlogger.Info:
		l.query(zapcore.DebugLevel, fc, elapsed, nil)
	}
}

// ParamsFilter keeps bound values (rates, history text) out of the log.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) emit(min gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.level < min {
		return
	}
	if len(data) > 0 {
		msg = fmt.Sprintf(msg, data...)
	}
	if ce := l.log.Check(level, strings.TrimSpace(msg)); ce != nil {
		ce.Write()
	}
}

func (l *GormLogger) query(level zapcore.Level, fc func() (string, int64), elapsed time.Duration, err error) {
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("statement", statementKind(sql)),
		zap.Duration("elapsed", elapsed),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if level == zapcore.DebugLevel {
		fields = append(fields, zap.String("sql", strings.TrimSpace(sql)))
	}
	if ce := l.log.Check(level, "state store query"); ce != nil {
		ce.Write(fields...)
	}
}

func statementKind(sql string) string {
	for _, token := range strings.Fields(strings.ToUpper(sql)) {
		token = strings.Trim(token, "();")
		switch token {
		case "SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "PRAGMA":
			return token
		}
	}
	return "OTHER"
}

var _ gormlogger.Interface = (*GormLogger)(nil)
