package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avetrov/securenote/internal/common"
	"github.com/avetrov/securenote/internal/cryptox"
	"github.com/avetrov/securenote/internal/server/config"
	"github.com/avetrov/securenote/internal/server/repositories/userdata"
)

// DataService stores one encrypted text payload per user.
type DataService struct {
	data     userdata.Repository
	key      []byte
	maxBytes int
}

// NewDataService constructs a DataService with the loaded encryption key.
func NewDataService(d userdata.Repository, key []byte, cfg *config.Config) *DataService {
	return &DataService{data: d, key: key, maxBytes: cfg.MaxDataBytes}
}

// Save encrypts plaintext and upserts the user's single row. The size
// ceiling is checked before encrypting; an oversized payload leaves any
// previously stored row untouched.
func (s *DataService) Save(ctx context.Context, username, plaintext string) error {
	if len(plaintext) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", common.ErrTooLarge, len(plaintext), s.maxBytes)
	}

	ciphertext, err := cryptox.EncryptString(plaintext, s.key)
	if err != nil {
		return fmt.Errorf("%w: encrypting payload: %v", common.ErrInternal, err)
	}

	if err := s.data.Upsert(ctx, username, ciphertext); err != nil {
		return fmt.Errorf("%w: saving payload: %v", common.ErrStorage, err)
	}

	return nil
}

// Load decrypts the user's payload. A user who never saved gets
// ("", false, nil): absence of data is a normal state, not a failure.
func (s *DataService) Load(ctx context.Context, username string) (string, bool, error) {
	ciphertext, err := s.data.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: loading payload: %v", common.ErrStorage, err)
	}

	plaintext, err := cryptox.DecryptString(ciphertext, s.key)
	if err != nil {
		return "", false, common.ErrDecryptionFailed
	}

	return plaintext, true, nil
}
