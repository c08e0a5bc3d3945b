// Package userdata persists the single encrypted payload row per user.
package userdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avetrov/securenote/internal/common"
	"github.com/avetrov/securenote/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert writes the user's ciphertext as a single conditional write:
// insert on first save, overwrite plus updated_at bump afterwards.
// Two concurrent saves can never leave two rows or zero rows.
func (r *SQLiteRepository) Upsert(ctx context.Context, username string, ciphertext []byte) error {
	query := `INSERT INTO user_data (username, ciphertext)
			VALUES (?, ?)
			ON CONFLICT(username) DO UPDATE SET ciphertext = excluded.ciphertext,
				updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, username, ciphertext)
	if err != nil {
		return fmt.Errorf("failed to upsert user data: %w", err)
	}
	return nil
}

// Get returns the stored ciphertext or common.ErrNotFound when the user
// has never saved anything.
func (r *SQLiteRepository) Get(ctx context.Context, username string) ([]byte, error) {
	query := `SELECT ciphertext FROM user_data WHERE username = ?`

	var ciphertext []byte
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&ciphertext); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user data: %w", err)
	}
	return ciphertext, nil
}
