package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
)

// UserService mirrors identity-provider accounts into the local users table.
// Authentication itself lives in the provider; this only keeps profile data
// close for joins (message senders, result exports) and serves the directory.
type UserService interface {
	// SyncFromToken upserts the user on every authenticated request so the
	// local profile tracks the provider. Returns the stored user, whose role
	// may differ from the token's initial one.
	SyncFromToken(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, int64, error)
}

type userService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewUserService(repo repositories.Repository, logger *slog.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) SyncFromToken(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		return nil, ErrUserNotFound
	}
	if err := s.repo.User().Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}

	stored, err := s.repo.User().GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load synced user: %w", err)
	}
	return stored, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	users, total, err := s.repo.User().List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
