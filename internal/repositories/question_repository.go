package repositories

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
)

type QuestionRepository interface {
	// ListByLesson returns the lesson's questions in their stored position
	// order; the order is significant and preserved downstream.
	ListByLesson(ctx context.Context, lessonID uint) ([]*models.Question, error)
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
}
