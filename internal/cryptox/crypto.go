// Package cryptox implements the data codec: authenticated symmetric
// encryption of a user's text payload with AES-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/avetrov/securenote/internal/common"
)

// EncryptString encrypts plaintext with AES-GCM under key.
//
// The key must be a valid AES key length (16, 24, or 32 bytes). A fresh
// random nonce is generated per call and prepended to the sealed bytes,
// so the returned blob is self-contained: the caller stores it as-is and
// needs nothing else to decrypt.
func EncryptString(plaintext string, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	return aesgcm.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// DecryptString reverses EncryptString. It fails closed: a wrong key,
// truncation, or any bit of tampering yields common.ErrDecryptionFailed,
// never partial output.
func DecryptString(blob []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("new gcm: %w", err)
	}

	if len(blob) < aesgcm.NonceSize() {
		return "", common.ErrDecryptionFailed
	}

	nonce, ciphertext := blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
