// Package services contains server-side business logic. This file
// implements AuthService: registration, login with per-IP rate
// limiting, session validation, and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avetrov/securenote/internal/common"
	"github.com/avetrov/securenote/internal/server/auth"
	"github.com/avetrov/securenote/internal/server/config"
	"github.com/avetrov/securenote/internal/server/models"
	"github.com/avetrov/securenote/internal/server/ratelimit"
	"github.com/avetrov/securenote/internal/server/repositories/sessions"
	"github.com/avetrov/securenote/internal/server/repositories/users"
	"github.com/avetrov/securenote/internal/server/validation"
	"github.com/google/uuid"
)

// AuthService drives the session lifecycle: Anonymous -> Authenticated
// (login) -> Anonymous (logout or absolute expiry).
type AuthService struct {
	users       users.Repository
	sessions    sessions.Repository
	limiter     *ratelimit.Limiter
	tokenSecret []byte
	sessionTTL  time.Duration

	// dummyHash is verified against when the username does not exist, so
	// the unknown-user path costs the same as a wrong-password one.
	dummyHash string
}

// NewAuthService constructs an AuthService using repositories, the
// injected rate limiter, and server config.
func NewAuthService(u users.Repository, s sessions.Repository, l *ratelimit.Limiter, cfg *config.Config) *AuthService {
	return &AuthService{
		users:       u,
		sessions:    s,
		limiter:     l,
		tokenSecret: []byte(cfg.TokenSecret),
		sessionTTL:  cfg.SessionTTL,
		dummyHash:   auth.HashPassword(uuid.NewString()),
	}
}

// Register validates the username and password, hashes the password, and
// creates the account. A taken username yields common.ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username, password, confirm string) (*models.User, error) {
	username = validation.Sanitize(username)

	if err := validation.Username(username); err != nil {
		return nil, err
	}
	if err := validation.Password(password); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: auth.HashPassword(password),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: creating user: %v", common.ErrStorage, err)
	}

	return created, nil
}

// Login checks the rate limiter before touching the credential store, so
// a locked IP learns nothing about which usernames exist. The attempt is
// recorded whether or not it succeeds. Unknown user and wrong password
// return the identical common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (string, error) {
	if s.limiter.IsLocked(ip) {
		return "", common.ErrRateLimited
	}
	s.limiter.RecordAttempt(ip)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Burn a verification anyway to keep timing flat.
			_, _ = auth.VerifyPassword(s.dummyHash, password)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: looking up user: %v", common.ErrStorage, err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return "", common.ErrInternal
	}
	if !ok {
		return "", common.ErrInvalidCredentials
	}

	token, id, err := auth.GenerateToken(user.Username, s.tokenSecret, s.sessionTTL)
	if err != nil {
		return "", common.ErrInternal
	}

	if err := s.sessions.Create(ctx, id, user.Username, time.Now().Add(s.sessionTTL)); err != nil {
		return "", fmt.Errorf("%w: creating session: %v", common.ErrStorage, err)
	}

	return token, nil
}

// Validate resolves a session token to a username. The token must carry
// a valid signature and unexpired claims, and its session record must
// still exist. An expired or logged-out session is indistinguishable
// from no session: both yield common.ErrNotAuthenticated.
func (s *AuthService) Validate(ctx context.Context, token string) (string, error) {
	claims, err := auth.ParseToken(token, s.tokenSecret)
	if err != nil {
		return "", common.ErrNotAuthenticated
	}

	// Lazy purge keeps the sessions table from accumulating dead rows.
	_ = s.sessions.DeleteExpired(ctx, time.Now())

	sess, err := s.sessions.Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotAuthenticated
		}
		return "", fmt.Errorf("%w: looking up session: %v", common.ErrStorage, err)
	}

	if !sess.Expires.After(time.Now()) {
		return "", common.ErrNotAuthenticated
	}

	return sess.Username, nil
}

// Logout invalidates the token's session record. It is idempotent:
// logging out an expired, unknown, or malformed token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.tokenSecret)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}
