package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresStore implements ports.ObjectStore on a Postgres table.
type PostgresStore struct {
	db    *sql.DB
	table string

	schemaOnce sync.Once
	schemaErr  error
}

// NewPostgresStore opens dsn through the pgx driver.
func NewPostgresStore(ctx context.Context, cfg domain.PostgresConfig) (*PostgresStore, error) {
	table := cfg.Table
	if table == "" {
		table = "facet_objects"
	}
	if !validTableName.MatchString(table) {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedStoreBackend, "invalid table name"), "table", table)
	}

	db, err := sql.Open("pgx", strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to reach database")
	}
	return NewPostgresStoreFromDB(db, table), nil
}

// NewPostgresStoreFromDB uses an already opened database handle.
func NewPostgresStoreFromDB(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: table}
}

// Close releases the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		//nolint:gosec // table name is validated against validTableName
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  ref TEXT PRIMARY KEY,
  data BYTEA NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
)`, s.table))
		if err != nil {
			s.schemaErr = zerr.With(zerr.Wrap(err, "failed to create object table"), "table", s.table)
		}
	})
	return s.schemaErr
}

// Put upserts data under ref.
func (s *PostgresStore) Put(ctx context.Context, ref domain.Ref, data []byte) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err)
	}
	//nolint:gosec // table name is validated against validTableName
	query := fmt.Sprintf(`INSERT INTO %s (ref, data) VALUES ($1, $2)
ON CONFLICT (ref) DO UPDATE SET data = EXCLUDED.data`, s.table)
	if _, err := s.db.ExecContext(ctx, query, ref.String(), data); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "ref", ref.String())
	}
	return nil
}

// Get selects the data stored under ref.
func (s *PostgresStore) Get(ctx context.Context, ref domain.Ref) ([]byte, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err)
	}
	//nolint:gosec // table name is validated against validTableName
	query := fmt.Sprintf(`SELECT data FROM %s WHERE ref = $1`, s.table)
	var data []byte
	if err := s.db.QueryRowContext(ctx, query, ref.String()).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "postgres store"), "ref", ref.String())
		}
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "ref", ref.String())
	}
	return data, nil
}

// Has reports whether a row exists for ref.
func (s *PostgresStore) Has(ctx context.Context, ref domain.Ref) (bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err)
	}
	//nolint:gosec // table name is validated against validTableName
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE ref = $1)`, s.table)
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, ref.String()).Scan(&exists); err != nil {
		return false, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "ref", ref.String())
	}
	return exists, nil
}

// Delete removes the row for ref.
func (s *PostgresStore) Delete(ctx context.Context, ref domain.Ref) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreDeleteFailed, err)
	}
	//nolint:gosec // table name is validated against validTableName
	query := fmt.Sprintf(`DELETE FROM %s WHERE ref = $1`, s.table)
	if _, err := s.db.ExecContext(ctx, query, ref.String()); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreDeleteFailed, err), "ref", ref.String())
	}
	return nil
}

// List selects every ref, sorted.
func (s *PostgresStore) List(ctx context.Context) ([]domain.Ref, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreListFailed, err)
	}
	//nolint:gosec // table name is validated against validTableName
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT ref FROM %s ORDER BY ref`, s.table))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreListFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var refs []domain.Ref
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreListFailed, err)
		}
		refs = append(refs, domain.Ref(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreListFailed, err)
	}
	return refs, nil
}
