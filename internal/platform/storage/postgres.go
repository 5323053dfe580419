package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of *pgxpool.Pool used by PostgresStore.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps documents as JSONB rows in a single key/value table.
type PostgresStore struct {
	db    querier
	table string
}

// NewPostgresStore uses table (created by EnsureSchema) for all documents.
func NewPostgresStore(db querier, table string) *PostgresStore {
	if table == "" {
		table = "documents"
	}
	return &PostgresStore{db: db, table: table}
}

// EnsureSchema creates the document table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + pgx.Identifier{s.table}.Sanitize() + ` (
		key TEXT PRIMARY KEY,
		body JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("storage: create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	query := `SELECT body FROM ` + pgx.Identifier{s.table}.Sanitize() + ` WHERE key = $1`
	var body []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: select %s: %w", key, err)
	}
	return body, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	query := `INSERT INTO ` + pgx.Identifier{s.table}.Sanitize() + ` (key, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.Exec(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("storage: upsert %s: %w", key, err)
	}
	return nil
}
