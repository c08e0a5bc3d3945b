package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/avetrov/securenote/internal/common"
	"github.com/avetrov/securenote/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:usersrepo?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE users (
  id            TEXT PRIMARY KEY,
  username      TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE user_data (
  username   TEXT PRIMARY KEY REFERENCES users (username) ON DELETE CASCADE,
  ciphertext BLOB NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(`DROP TABLE user_data; DROP TABLE users;`)
	})
	return db
}

func newUser(username string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "pbkdf2:sha256:600000$aa$bb",
	}
}

func TestCreateAndGet(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	u, err := repo.Create(ctx, newUser("alice"))
	require.NoError(t, err)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("bob"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("bob"))
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestGetByUsername_NotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	_, err := repo.GetByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_CascadesToUserData(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("carol"))
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO user_data (username, ciphertext) VALUES (?, ?)`, "carol", []byte{1, 2, 3})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "carol"))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM user_data WHERE username = ?`, "carol").Scan(&n))
	require.Equal(t, 0, n)
}

func TestDelete_NotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	err := repo.Delete(context.Background(), "nobody")
	require.ErrorIs(t, err, common.ErrNotFound)
}
