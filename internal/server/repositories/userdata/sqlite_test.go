package userdata

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/avetrov/securenote/internal/common"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:userdatarepo?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE user_data (
  username   TEXT PRIMARY KEY,
  ciphertext BLOB NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(`DROP TABLE user_data;`)
	})
	return db
}

func TestUpsertAndGet(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "alice", []byte("blob-1")))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []byte("blob-1"), got)
}

func TestUpsert_OverwritesSingleRow(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "bob", []byte("old")))
	require.NoError(t, repo.Upsert(ctx, "bob", []byte("new")))

	got, err := repo.Get(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM user_data WHERE username = ?`, "bob").Scan(&n))
	require.Equal(t, 1, n)
}

func TestGet_NeverSaved(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	_, err := repo.Get(context.Background(), "nobody")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpsert_ConcurrentSaves(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	payloads := [][]byte{[]byte("a"), []byte("b")}

	var wg sync.WaitGroup
	errs := make([]error, len(payloads))
	for i, p := range payloads {
		wg.Add(1)
		go func(i int, p []byte) {
			defer wg.Done()
			errs[i] = repo.Upsert(ctx, "carol", p)
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM user_data WHERE username = ?`, "carol").Scan(&n))
	require.Equal(t, 1, n, "exactly one row must survive concurrent saves")

	got, err := repo.Get(ctx, "carol")
	require.NoError(t, err)
	require.Contains(t, []string{"a", "b"}, string(got))
}
