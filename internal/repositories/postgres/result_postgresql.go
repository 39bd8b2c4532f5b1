package postgres

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

// UpsertBest relies on the (user_id, lesson_id) primary key: a conflicting
// insert keeps the higher score and bumps the attempt counter atomically in
// the database, so concurrent completions cannot lose an attempt.
func (r *ResultPostgreSQL) UpsertBest(ctx context.Context, result *models.QuizResult) error {
	result.Attempts = 1
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"best_score":      gorm.Expr("GREATEST(quiz_results.best_score, excluded.best_score)"),
			"total_questions": gorm.Expr("excluded.total_questions"),
			"attempts":        gorm.Expr("quiz_results.attempts + 1"),
			"updated_at":      gorm.Expr("excluded.updated_at"),
		}),
	}).Create(result).Error
}

func (r *ResultPostgreSQL) GetByUserAndLesson(ctx context.Context, userID string, lessonID uint) (*models.QuizResult, error) {
	var result models.QuizResult
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.QuizResult, error) {
	var results []*models.QuizResult
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Lesson").
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ResultPostgreSQL) ListByLesson(ctx context.Context, lessonID uint) ([]*models.QuizResult, error) {
	var results []*models.QuizResult
	if err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Preload("User").
		Order("best_score DESC, updated_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
