package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectRejectsEmptyPath(t *testing.T) {
	_, err := Dialect(Config{Path: "  "})
	assert.Error(t, err)
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	conn, err := Open(DefaultConfig(path), nil)
	require.NoError(t, err)

	var one int
	require.NoError(t, conn.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

func TestOpenInMemoryWithQuery(t *testing.T) {
	cfg := Config{Path: "file::memory:?cache=shared", BusyTimeout: time.Second}
	conn, err := Open(cfg, nil)
	require.NoError(t, err)

	var one int
	require.NoError(t, conn.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
