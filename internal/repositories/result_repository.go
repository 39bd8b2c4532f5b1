package repositories

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
)

type ResultRepository interface {
	// UpsertBest records one finished attempt keyed by (user, lesson):
	// insert-if-absent with attempts = 1, otherwise keep the maximum of the
	// stored and the new score and increment attempts.
	UpsertBest(ctx context.Context, result *models.QuizResult) error

	GetByUserAndLesson(ctx context.Context, userID string, lessonID uint) (*models.QuizResult, error)
	ListByUser(ctx context.Context, userID string) ([]*models.QuizResult, error)
	ListByLesson(ctx context.Context, lessonID uint) ([]*models.QuizResult, error)
}
