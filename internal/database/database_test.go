package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink-be/internal/repository"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		url     string
		driver  string
		dialect string
		dsn     string
	}{
		{"postgres://u:p@localhost:5432/links?sslmode=disable", "postgres", repository.DialectPostgres, "postgres://u:p@localhost:5432/links?sslmode=disable"},
		{"postgresql://localhost/links", "postgres", repository.DialectPostgres, "postgresql://localhost/links"},
		{"libsql://links-db.turso.io?authToken=x", "libsql", repository.DialectSQLite, "libsql://links-db.turso.io?authToken=x"},
		{"sqlite://data/links.db", "sqlite", repository.DialectSQLite, "data/links.db"},
		{"file:links.db?cache=shared", "sqlite", repository.DialectSQLite, "file:links.db?cache=shared"},
		{"links.db", "sqlite", repository.DialectSQLite, "links.db"},
		{":memory:", "sqlite", repository.DialectSQLite, ":memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			target, err := Resolve(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, target.Driver)
			assert.Equal(t, tt.dialect, target.Dialect)
			assert.Equal(t, tt.dsn, target.DSN)
		})
	}
}

func TestResolve_Unsupported(t *testing.T) {
	_, err := Resolve("mysql://localhost/links")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
}

func TestOpenAndMigrate_SQLiteInMemory(t *testing.T) {
	logger := zap.NewNop()

	conn, err := Open(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, RunMigrations(conn, logger))
	// running twice is a no-op
	require.NoError(t, RunMigrations(conn, logger))

	var count int
	err = conn.DB.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
