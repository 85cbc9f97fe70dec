package main

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/article-api/internal/config"
	"github.com/article-api/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "migrate.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunCommands(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, run(db, []string{"up"}))
	version, _, err := db.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, run(db, []string{"down"}))
	version, _, err = db.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	require.NoError(t, run(db, []string{"goto", "1"}))
	require.NoError(t, run(db, []string{"version"}))
}

func TestRunRejectsBadInput(t *testing.T) {
	db := newTestDB(t)

	assert.Error(t, run(db, []string{"sideways"}))
	assert.Error(t, run(db, []string{"goto"}))
	assert.Error(t, run(db, []string{"goto", "latest"}))
}
