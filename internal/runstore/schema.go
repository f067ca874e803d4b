package runstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stamped into the database's user_version pragma. Bump it
// when schema.sql changes; stale caches are cleared, not migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the cache database was created by an
// incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) ensureSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version == schemaVersion {
		return nil
	}
	if version == 0 {
		empty, err := s.databaseEmpty(ctx)
		if err != nil {
			return err
		}
		if empty {
			return s.applySchema(ctx)
		}
	}
	return fmt.Errorf("%w: database has version %d, expected %d (delete the cache database to rebuild)",
		ErrSchemaMismatch, version, schemaVersion)
}

func (s *Store) databaseEmpty(ctx context.Context) (bool, error) {
	var tables int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&tables)
	if err != nil {
		return false, fmt.Errorf("inspect database: %w", err)
	}
	return tables == 0, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
