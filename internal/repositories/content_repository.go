package repositories

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
)

// ContentRepository covers epochs, lessons and their content blocks.
type ContentRepository interface {
	// Epochs
	ListEpochs(ctx context.Context) ([]*models.Epoch, error)
	GetEpoch(ctx context.Context, id uint) (*models.Epoch, error)
	GetEpochBySlug(ctx context.Context, slug string) (*models.Epoch, error)
	CreateEpoch(ctx context.Context, epoch *models.Epoch) error
	UpdateEpoch(ctx context.Context, epoch *models.Epoch) error
	DeleteEpoch(ctx context.Context, id uint) error

	// Lessons
	ListLessons(ctx context.Context, filters LessonFilters) ([]*models.Lesson, int64, error)
	GetLesson(ctx context.Context, id uint) (*models.Lesson, error)
	// GetLessonWithBlocks preloads blocks and questions in stored order.
	GetLessonWithBlocks(ctx context.Context, id uint) (*models.Lesson, error)
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	DeleteLesson(ctx context.Context, id uint) error
	SetLessonPublished(ctx context.Context, id uint, published bool) error

	// Content blocks
	ListBlocks(ctx context.Context, lessonID uint) ([]*models.ContentBlock, error)
	GetBlock(ctx context.Context, id uint) (*models.ContentBlock, error)
	CreateBlock(ctx context.Context, block *models.ContentBlock) error
	UpdateBlock(ctx context.Context, block *models.ContentBlock) error
	DeleteBlock(ctx context.Context, id uint) error
}
