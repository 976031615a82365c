package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/devanshgoyal/shopkart/internal/config"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	_ "github.com/lib/pq"
)

// Postgres keeps the whole record space in one table:
//
//	CREATE TABLE IF NOT EXISTS records (key TEXT PRIMARY KEY, value TEXT NOT NULL)
//
// The column is TEXT, not JSONB: records hold whatever Set was given, and
// scalar records like the theme are bare strings rather than JSON documents.
//
// This backend cannot observe writes from other processes, so Watch only
// fires for local writes.
type Postgres struct {
	db       *sql.DB
	watchers *watcherSet
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := NewPostgresWithDB(db)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return store, nil
}

// NewPostgresWithDB wraps an existing handle; tests use it with a mock.
func NewPostgresWithDB(db *sql.DB) *Postgres {
	return &Postgres{db: db, watchers: newWatcherSet()}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM records WHERE key = $1`

	var value string

	err := p.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("querying record %q: %w", key, err)
	}

	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO records (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("writing record %q: %w", key, err)
	}

	p.watchers.notify(key)

	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM records WHERE key = $1`

	if _, err := p.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("deleting record %q: %w", key, err)
	}

	p.watchers.notify(key)

	return nil
}

func (p *Postgres) Watch(key string, fn func()) func() {
	return p.watchers.add(key, fn)
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
