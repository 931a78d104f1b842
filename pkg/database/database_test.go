package database

import (
	"class_tracker/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "database/school.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", SQLiteDSN("database/school.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", SQLiteDSN("file:x?mode=memory"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "postgres"})
	assert.ErrorContains(t, err, `unsupported database driver "postgres"`)
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: DriverSQLite, Path: "file:fk_check?mode=memory&cache=shared", LogLevel: "silent"})
	require.NoError(t, err)
	defer Close(db)

	var on int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&on).Error)
	assert.Equal(t, 1, on)
}

func TestInitRedis_Unreachable(t *testing.T) {
	_, err := InitRedis(&config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.ErrorContains(t, err, "redis 127.0.0.1:1 unavailable")
}
