package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/exalaa/candidate-client/internal/dbx"
)

type SQLiteRepository struct {
	db    dbx.DBTX
	scope string
}

// NewSQLiteRepository returns a repository bound to one scope. Calls made
// with a context produced by dbx.WithTx run inside that transaction.
func NewSQLiteRepository(db dbx.DBTX, scope string) *SQLiteRepository {
	return &SQLiteRepository{db: db, scope: scope}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := dbx.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT value FROM slots WHERE scope = ? AND key = ?`, r.scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot[%s/%s]: %w", r.scope, key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := dbx.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO slots (scope, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, r.scope, key, value)
	if err != nil {
		return fmt.Errorf("failed to set slot[%s/%s]: %w", r.scope, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := dbx.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM slots WHERE scope = ? AND key = ?`, r.scope, key)
	if err != nil {
		return fmt.Errorf("failed to delete slot[%s/%s]: %w", r.scope, key, err)
	}
	return nil
}

// Clear removes every slot of this scope; other scopes are untouched.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := dbx.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM slots WHERE scope = ?`, r.scope)
	if err != nil {
		return fmt.Errorf("failed to clear slots[%s]: %w", r.scope, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := dbx.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT key, value FROM slots WHERE scope = ?`, r.scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots[%s]: %w", r.scope, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan slot row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slot rows: %w", err)
	}
	return result, nil
}
