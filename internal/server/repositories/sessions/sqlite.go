// Package sessions persists server-side session records so that logout
// can invalidate a token before its absolute expiry.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avetrov/securenote/internal/common"
	"github.com/avetrov/securenote/internal/dbx"
	"github.com/avetrov/securenote/internal/server/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a session record. Expiry is stored as unix seconds.
func (r *SQLiteRepository) Create(ctx context.Context, id, username string, expires time.Time) error {
	query := `INSERT INTO sessions (id, username, expires_at) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, id, username, expires.Unix()); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Find returns the session record or common.ErrNotFound.
func (r *SQLiteRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT id, username, expires_at FROM sessions WHERE id = ?`

	s := &models.Session{}
	var expires int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Username, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select session: %w", err)
	}
	s.Expires = time.Unix(expires, 0)
	return s, nil
}

// Delete removes a session. Deleting a missing session is not an error,
// which makes logout idempotent.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired drops all sessions that expired at or before now.
func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.Unix()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
