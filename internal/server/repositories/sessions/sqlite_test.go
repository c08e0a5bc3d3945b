package sessions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/avetrov/securenote/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:sessionsrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE sessions (
  id         TEXT PRIMARY KEY,
  username   TEXT NOT NULL,
  expires_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(`DROP TABLE sessions;`)
	})
	return db
}

func TestCreateAndFind(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	id := uuid.NewString()
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, id, "alice", expires))

	s, err := repo.Find(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, s.ID)
	require.Equal(t, "alice", s.Username)
	require.Equal(t, expires.Unix(), s.Expires.Unix())
}

func TestFind_NotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	_, err := repo.Find(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	id := uuid.NewString()
	require.NoError(t, repo.Create(ctx, id, "bob", time.Now().Add(time.Hour)))

	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, id))

	_, err := repo.Find(ctx, id)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteExpired(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now()

	expired := uuid.NewString()
	live := uuid.NewString()
	require.NoError(t, repo.Create(ctx, expired, "carol", now.Add(-time.Minute)))
	require.NoError(t, repo.Create(ctx, live, "carol", now.Add(time.Hour)))

	require.NoError(t, repo.DeleteExpired(ctx, now))

	_, err := repo.Find(ctx, expired)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.Find(ctx, live)
	require.NoError(t, err)
}
