package artifacts

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes shape. The index is
// derived data, so a mismatch asks the user to delete the database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the index was written by a different version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (i *Index) initSchema(ctx context.Context) error {
	version, ok, err := i.storedVersion(ctx)
	switch {
	case err != nil:
		return err
	case !ok:
		return i.createSchema(ctx)
	case version != schemaVersion:
		return fmt.Errorf("%w: index has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, i.path)
	default:
		return nil
	}
}

// storedVersion reads the recorded schema version; ok is false for a fresh
// database.
func (i *Index) storedVersion(ctx context.Context) (int, bool, error) {
	var tables int
	if err := i.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&tables); err != nil {
		return 0, false, fmt.Errorf("inspect schema: %w", err)
	}
	if tables == 0 {
		return 0, false, nil
	}
	var version int
	if err := i.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, true, nil
}

func (i *Index) createSchema(ctx context.Context) (err error) {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}
