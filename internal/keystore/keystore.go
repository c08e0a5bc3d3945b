// Package keystore manages the symmetric data-encryption key: a single
// file holding exactly KeySize raw bytes, readable only by the owning
// process identity.
package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avetrov/securenote/internal/common"
)

// KeySize is the length of the data-encryption key (AES-256).
const KeySize = 32

// ErrCorruptKey is returned when an existing key file does not contain
// exactly KeySize bytes. An invalid key file is never overwritten: all
// previously stored ciphertext would become undecryptable.
var ErrCorruptKey = errors.New("corrupt key file")

// LoadOrCreate returns the key stored at path, generating and persisting
// a fresh one if the file does not exist yet.
//
// A new key is written to a temp file first and then linked into place,
// so the key file is only ever observed complete. If two first-time
// startups race, exactly one link succeeds and the loser re-reads the
// winner's file.
func LoadOrCreate(path string) ([]byte, error) {
	key, err := readKey(path)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyManagement, err)
	}

	// An empty file can only be a truncated first-time write; clear it
	// so the create path below can run again.
	if info, serr := os.Stat(path); serr == nil && info.Size() == 0 {
		_ = os.Remove(path)
	}

	fresh := common.GenerateRandByteArray(KeySize)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".key-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp key: %v", common.ErrKeyManagement, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(fresh); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: write key: %v", common.ErrKeyManagement, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: chmod key: %v", common.ErrKeyManagement, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: close key: %v", common.ErrKeyManagement, err)
	}

	if err := os.Link(tmp.Name(), path); err != nil {
		if errors.Is(err, os.ErrExist) {
			// Lost the creation race, use the winner's key.
			return readKey(path)
		}
		return nil, fmt.Errorf("%w: link %s: %v", common.ErrKeyManagement, path, err)
	}

	return fresh, nil
}

// readKey reads and length-checks an existing key file. An empty file is
// reported like a missing one so a truncated write can be retried.
func readKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrKeyManagement, path, err)
	}
	if len(key) == 0 {
		return nil, os.ErrNotExist
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %s holds %d bytes, want %d", ErrCorruptKey, path, len(key), KeySize)
	}
	return key, nil
}

// EnsureParentDir creates the directory containing path if needed.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
