package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Local SQLite driver

	"shortlink-be/internal/repository"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// ErrUnsupportedURL is returned when the database URL scheme is not recognised.
var ErrUnsupportedURL = errors.New("unsupported database url")

// Connection is an open database together with its SQL dialect.
type Connection struct {
	DB      *sql.DB
	Dialect string
	Driver  string
}

// Target describes how a DATABASE_URL maps onto a database/sql driver.
type Target struct {
	Driver  string
	Dialect string
	DSN     string
}

// Resolve picks the driver for a database URL.
//
//	postgres://, postgresql://      -> lib/pq
//	libsql://, wss://               -> libSQL (Turso)
//	sqlite://path, file:..., *.db   -> modernc SQLite
func Resolve(databaseURL string) (Target, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return Target{Driver: "postgres", Dialect: repository.DialectPostgres, DSN: databaseURL}, nil
	case strings.HasPrefix(databaseURL, "libsql://"), strings.HasPrefix(databaseURL, "wss://"):
		return Target{Driver: "libsql", Dialect: repository.DialectSQLite, DSN: databaseURL}, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return Target{Driver: "sqlite", Dialect: repository.DialectSQLite, DSN: strings.TrimPrefix(databaseURL, "sqlite://")}, nil
	case strings.HasPrefix(databaseURL, "file:"),
		databaseURL == ":memory:",
		strings.HasSuffix(databaseURL, ".db"),
		strings.HasSuffix(databaseURL, ".sqlite"):
		return Target{Driver: "sqlite", Dialect: repository.DialectSQLite, DSN: databaseURL}, nil
	}
	return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedURL, databaseURL)
}

// Open connects to the database behind databaseURL and verifies it with a ping.
func Open(ctx context.Context, databaseURL string, logger *zap.Logger) (*Connection, error) {
	target, err := Resolve(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if target.Driver == "sqlite" {
		// one writer at a time; also keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to database", zap.String("driver", target.Driver))
	return &Connection{DB: db, Dialect: target.Dialect, Driver: target.Driver}, nil
}

// RunMigrations applies the embedded goose migrations for the connection's dialect.
func RunMigrations(conn *Connection, logger *zap.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(conn.Dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(conn.DB, "migrations/"+conn.Dialect); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database migrations completed", zap.String("dialect", conn.Dialect))
	return nil
}

func (c *Connection) Close() error {
	return c.DB.Close()
}
