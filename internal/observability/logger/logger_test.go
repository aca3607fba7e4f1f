package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	log, err := New(nil, Config{Format: "JSON", Level: "debug"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.Equal(t, "json", normalizeFormat("JSON"))
	assert.Equal(t, "console", normalizeFormat("logfmt"))
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), GormLoggerConfig{Level: gormlogger.Warn, SlowThreshold: time.Millisecond})
	ctx := context.Background()
	fc := func() (string, int64) { return "SELECT * FROM preferences WHERE id = 1", 0 }

	gl.Trace(ctx, time.Now(), fc, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	gl.Trace(ctx, time.Now(), fc, errors.New("database is locked"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "SELECT", entry.ContextMap()["statement"])

	gl.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)

	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), fc, errors.New("ignored"))
	assert.Equal(t, 2, logs.Len())
}

func TestStatementKind(t *testing.T) {
	assert.Equal(t, "INSERT", statementKind(`  insert into "history_entries" ...`))
	assert.Equal(t, "DELETE", statementKind("DELETE FROM history_entries WHERE 1 = 1"))
	assert.Equal(t, "OTHER", statementKind("BEGIN"))
}
