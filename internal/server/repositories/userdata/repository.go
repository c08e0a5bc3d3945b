package userdata

import "context"

type Repository interface {
	Upsert(ctx context.Context, username string, ciphertext []byte) error
	Get(ctx context.Context, username string) ([]byte, error)
}
