// Package auth implements credential hashing and session token handling.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/avetrov/securenote/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

// Hash parameters. The iteration count is chosen to make offline brute
// force expensive while keeping login latency acceptable.
const (
	hashMethod     = "pbkdf2:sha256"
	hashIterations = 600000
	saltSize       = 16
)

// HashPassword derives a salted PBKDF2-SHA256 hash and encodes it as
//
//	pbkdf2:sha256:<iterations>$<salt-hex>$<hash-hex>
//
// The salt is unique per call, so the same password never produces the
// same encoded string twice.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(saltSize)
	dk := pbkdf2.Key([]byte(password), salt, hashIterations, sha256.Size, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s",
		hashMethod, hashIterations, hex.EncodeToString(salt), hex.EncodeToString(dk))
}

// VerifyPassword re-derives the candidate against the salt and iteration
// count embedded in encoded and compares in constant time. A mismatch is
// a valid false result, not an error; an error means the stored hash is
// malformed.
func VerifyPassword(encoded, candidate string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return false, fmt.Errorf("malformed password hash")
	}

	method := parts[0]
	if !strings.HasPrefix(method, hashMethod+":") {
		return false, fmt.Errorf("unsupported hash method %q", method)
	}

	iterations, err := strconv.Atoi(strings.TrimPrefix(method, hashMethod+":"))
	if err != nil || iterations <= 0 {
		return false, fmt.Errorf("malformed iteration count")
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("malformed salt: %w", err)
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("malformed hash: %w", err)
	}

	got := pbkdf2.Key([]byte(candidate), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
