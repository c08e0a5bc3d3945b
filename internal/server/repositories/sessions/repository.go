package sessions

import (
	"context"
	"time"

	"github.com/avetrov/securenote/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, id, username string, expires time.Time) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}
