package auth

import (
	"time"

	"github.com/avetrov/securenote/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard registered claims plus the username.
// The registered ID (jti) keys the server-side session record, which is
// what makes logout able to revoke a token before its expiry.
type Claims struct {
	jwt.RegisteredClaims
	Username string
}

// GenerateToken mints an HS256 session token with an absolute expiry and
// a fresh uuid as the token id. It returns the signed token and the id.
func GenerateToken(username string, secretKey []byte, validityDuration time.Duration) (string, string, error) {
	id := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", "", err
	}

	return tokenString, id, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
// Any invalid, malformed, or expired token yields common.ErrNotAuthenticated;
// the caller gets no detail about which check failed.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrNotAuthenticated
	}

	if !token.Valid {
		return nil, common.ErrNotAuthenticated
	}

	return claims, nil
}
