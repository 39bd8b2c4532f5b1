package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/epokowo/epokowo-service/internal/cache"
	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
)

// ContentService is the learner-facing read side of epochs and lessons. It is
// the content source of the grading layer: questions come out decoded-checked
// and in stored order.
type ContentService interface {
	ListEpochs(ctx context.Context) ([]*models.Epoch, error)
	GetEpochBySlug(ctx context.Context, slug string) (*models.Epoch, error)
	ListLessons(ctx context.Context, epochID uint, actor models.Actor) ([]*models.Lesson, error)
	GetLesson(ctx context.Context, lessonID uint, actor models.Actor) (*models.Lesson, error)

	// QuizQuestions returns the lesson's questions in stored order with
	// contents decoded once at this boundary.
	QuizQuestions(ctx context.Context, lessonID uint, actor models.Actor) ([]models.Question, error)

	// InvalidateLesson drops the lesson's cache entry after editor writes.
	InvalidateLesson(ctx context.Context, lessonID uint)

	// InvalidateAllLessons drops every cached lesson, used when a delete
	// cascades across lessons (epoch removal).
	InvalidateAllLessons(ctx context.Context)
}

type contentService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
	ttl    time.Duration
}

func NewContentService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, ttl time.Duration) ContentService {
	return &contentService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
		ttl:    ttl,
	}
}

func lessonCacheKey(lessonID uint) string {
	return fmt.Sprintf("lesson:%d", lessonID)
}

func (s *contentService) ListEpochs(ctx context.Context) ([]*models.Epoch, error) {
	epochs, err := s.repo.Content().ListEpochs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list epochs: %w", err)
	}
	return epochs, nil
}

func (s *contentService) GetEpochBySlug(ctx context.Context, slug string) (*models.Epoch, error) {
	epoch, err := s.repo.Content().GetEpochBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEpochNotFound
		}
		return nil, fmt.Errorf("failed to get epoch: %w", err)
	}
	return epoch, nil
}

func (s *contentService) ListLessons(ctx context.Context, epochID uint, actor models.Actor) ([]*models.Lesson, error) {
	if _, err := s.repo.Content().GetEpoch(ctx, epochID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEpochNotFound
		}
		return nil, fmt.Errorf("failed to get epoch: %w", err)
	}

	filters := repositories.LessonFilters{
		EpochID:       &epochID,
		PublishedOnly: !actor.IsAdmin,
	}
	lessons, _, err := s.repo.Content().ListLessons(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

func (s *contentService) GetLesson(ctx context.Context, lessonID uint, actor models.Actor) (*models.Lesson, error) {
	// Learners hit the cache; admins read through to see drafts live.
	if !actor.IsAdmin {
		var cached models.Lesson
		err := s.cache.Get(ctx, lessonCacheKey(lessonID), &cached)
		if err == nil {
			if !cached.Published {
				return nil, ErrLessonNotPublished
			}
			stripAnswerKeys(&cached)
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// A broken cache must not take the content path down.
			s.logger.Warn("Lesson cache read failed", "lesson_id", lessonID, "error", err)
		}
	}

	lesson, err := s.repo.Content().GetLessonWithBlocks(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	if !actor.IsAdmin {
		if err := s.cache.Set(ctx, lessonCacheKey(lessonID), lesson, s.ttl); err != nil {
			s.logger.Warn("Lesson cache write failed", "lesson_id", lessonID, "error", err)
		}
		if !lesson.Published {
			return nil, ErrLessonNotPublished
		}
		stripAnswerKeys(lesson)
	}
	return lesson, nil
}

// stripAnswerKeys removes the per-kind content payloads from a learner-facing
// lesson; they carry correct answers. Quiz play reads questions through the
// dedicated quiz endpoints, which present keys-stripped views.
func stripAnswerKeys(lesson *models.Lesson) {
	for i := range lesson.Questions {
		lesson.Questions[i].Content = nil
	}
}

func (s *contentService) QuizQuestions(ctx context.Context, lessonID uint, actor models.Actor) ([]models.Question, error) {
	lesson, err := s.repo.Content().GetLesson(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if !lesson.Published && !actor.IsAdmin {
		return nil, ErrLessonNotPublished
	}

	questions, err := s.repo.Question().ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrQuizEmpty
	}

	out := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		// Reject malformed payloads here so downstream grading can trust
		// the shape.
		if _, err := q.DecodeContent(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuestionInvalidContent, err)
		}
		out = append(out, *q)
	}
	return out, nil
}

func (s *contentService) InvalidateLesson(ctx context.Context, lessonID uint) {
	if err := s.cache.Delete(ctx, lessonCacheKey(lessonID)); err != nil {
		s.logger.Warn("Lesson cache invalidation failed", "lesson_id", lessonID, "error", err)
	}
}

func (s *contentService) InvalidateAllLessons(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "lesson:*"); err != nil {
		s.logger.Warn("Lesson cache sweep failed", "error", err)
	}
}
