package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"shortlink-be/internal/entities"
)

// Dialects understood by the SQL repository. Values match goose dialect names.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Fixed-width so that stored values compare correctly as text in SQLite.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000"

const linkColumns = `id, short_id, original_url, owner, click_count, created_at, expires_at`

type linkRepository struct {
	db      *sql.DB
	dialect string
}

// NewLinkRepository creates a SQL backed link repository.
// Queries are written with ? placeholders and rebound for PostgreSQL.
func NewLinkRepository(db *sql.DB, dialect string) LinkRepository {
	return &linkRepository{db: db, dialect: dialect}
}

// Insert stores a new link and fills in its ID.
func (r *linkRepository) Insert(ctx context.Context, link *entities.Link) error {
	query := r.rebind(`
		INSERT INTO links (short_id, original_url, owner, click_count, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	var expiresAt interface{}
	if link.ExpiresAt != nil {
		expiresAt = r.timeArg(*link.ExpiresAt)
	}

	err := r.db.QueryRowContext(ctx, query,
		link.ShortID,
		link.OriginalURL,
		link.User,
		link.ClickCount,
		r.timeArg(link.CreatedAt),
		expiresAt,
	).Scan(&link.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateShortID
		}
		return fmt.Errorf("failed to insert link: %w", err)
	}

	return nil
}

// FindByShortID returns the link regardless of its expiry.
func (r *linkRepository) FindByShortID(ctx context.Context, shortID string) (*entities.Link, error) {
	query := r.rebind(`SELECT ` + linkColumns + ` FROM links WHERE short_id = ?`)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	return link, nil
}

// ListAll returns every link ordered by creation time, newest first.
func (r *linkRepository) ListAll(ctx context.Context) ([]*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]*entities.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// DeleteByShortID removes the link in a single statement so that only one
// of several concurrent deleters sees the record.
func (r *linkRepository) DeleteByShortID(ctx context.Context, shortID string) (*entities.Link, error) {
	query := r.rebind(`DELETE FROM links WHERE short_id = ? RETURNING ` + linkColumns)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete link: %w", err)
	}

	return link, nil
}

// IncrementClickCount bumps the counter in the database, never in Go.
func (r *linkRepository) IncrementClickCount(ctx context.Context, shortID string) (int64, error) {
	query := r.rebind(`
		UPDATE links
		SET click_count = click_count + 1
		WHERE short_id = ?
		RETURNING click_count
	`)

	var count int64
	err := r.db.QueryRowContext(ctx, query, shortID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment click count: %w", err)
	}

	return count, nil
}

func (r *linkRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := r.rebind(`DELETE FROM links WHERE expires_at IS NOT NULL AND expires_at < ?`)

	result, err := r.db.ExecContext(ctx, query, r.timeArg(before))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired links: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *linkRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *linkRepository) timeArg(t time.Time) interface{} {
	if r.dialect == DialectPostgres {
		return t.UTC()
	}
	return t.UTC().Format(sqliteTimeLayout)
}

// rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func (r *linkRepository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(row rowScanner) (*entities.Link, error) {
	var (
		link      entities.Link
		owner     sql.NullString
		createdAt dbTime
		expiresAt dbTime
	)

	err := row.Scan(
		&link.ID,
		&link.ShortID,
		&link.OriginalURL,
		&owner,
		&link.ClickCount,
		&createdAt,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if owner.Valid {
		link.User = &owner.String
	}
	link.CreatedAt = createdAt.Time
	if expiresAt.Valid {
		t := expiresAt.Time
		link.ExpiresAt = &t
	}

	return &link, nil
}

// dbTime scans timestamps from drivers that return time.Time as well as
// those (SQLite over RETURNING, libSQL) that hand back text.
type dbTime struct {
	Time  time.Time
	Valid bool
}

var dbTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

func (t *dbTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	case int64:
		t.Time, t.Valid = time.Unix(v, 0).UTC(), true
		return nil
	}
	return fmt.Errorf("cannot scan %T into timestamp", value)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	// libSQL reports constraint failures as plain text
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
