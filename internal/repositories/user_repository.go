package repositories

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Upsert creates the user on first sight and refreshes profile fields
	// from token claims afterwards. The stored role is never downgraded by
	// a sync.
	Upsert(ctx context.Context, user *models.User) error
	List(ctx context.Context, limit, offset int) ([]*models.User, int64, error)
}
