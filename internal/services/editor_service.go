package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/epokowo/epokowo-service/internal/events"
	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"github.com/epokowo/epokowo-service/internal/validator"
)

// EditorService is the admin-facing write side of the content tree: epochs,
// lessons, content blocks and quiz questions. Every write that touches a
// lesson invalidates its cache entry so learners never read stale pages.
type EditorService interface {
	// Epochs
	CreateEpoch(ctx context.Context, actor models.Actor, req *EpochRequest) (*models.Epoch, error)
	UpdateEpoch(ctx context.Context, actor models.Actor, id uint, req *EpochRequest) (*models.Epoch, error)
	DeleteEpoch(ctx context.Context, actor models.Actor, id uint) error

	// Lessons
	CreateLesson(ctx context.Context, actor models.Actor, req *LessonRequest) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, actor models.Actor, id uint, req *LessonRequest) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, actor models.Actor, id uint) error
	SetLessonPublished(ctx context.Context, actor models.Actor, id uint, published bool) (*models.Lesson, error)

	// Content blocks
	CreateBlock(ctx context.Context, actor models.Actor, lessonID uint, req *BlockRequest) (*models.ContentBlock, error)
	UpdateBlock(ctx context.Context, actor models.Actor, blockID uint, req *BlockRequest) (*models.ContentBlock, error)
	DeleteBlock(ctx context.Context, actor models.Actor, blockID uint) error

	// Questions
	CreateQuestion(ctx context.Context, actor models.Actor, lessonID uint, req *QuestionRequest) (*models.Question, error)
	UpdateQuestion(ctx context.Context, actor models.Actor, questionID uint, req *QuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, actor models.Actor, questionID uint) error
}

type EpochRequest struct {
	Slug        string `json:"slug" validate:"required,min=1,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Period      string `json:"period" validate:"max=100"`
	Description string `json:"description" validate:"max=2000"`
	Position    int    `json:"position" validate:"min=0"`
}

type LessonRequest struct {
	EpochID  uint   `json:"epoch_id" validate:"required"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Position int    `json:"position" validate:"min=0"`
}

type BlockRequest struct {
	Type     models.BlockType `json:"type" validate:"required,oneof=text image video quiz"`
	Position int              `json:"position" validate:"min=0"`
	Payload  json.RawMessage  `json:"payload" validate:"required"`
}

type QuestionRequest struct {
	Kind     models.QuestionKind `json:"kind" validate:"required,question_kind"`
	Prompt   string              `json:"prompt" validate:"required,min=1"`
	Position int                 `json:"position" validate:"min=0"`
	Content  json.RawMessage     `json:"content" validate:"required"`
}

type editorService struct {
	repo      repositories.Repository
	content   ContentService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEditorService(repo repositories.Repository, content ContentService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) EditorService {
	return &editorService{
		repo:      repo,
		content:   content,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// Epochs

func (s *editorService) CreateEpoch(ctx context.Context, actor models.Actor, req *EpochRequest) (*models.Epoch, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if existing, err := s.repo.Content().GetEpochBySlug(ctx, slug); err == nil && existing != nil {
		return nil, ErrEpochDuplicateSlug
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check epoch slug: %w", err)
	}

	epoch := &models.Epoch{
		Slug:        slug,
		Name:        req.Name,
		Period:      req.Period,
		Description: req.Description,
		Position:    req.Position,
	}
	if err := s.repo.Content().CreateEpoch(ctx, epoch); err != nil {
		return nil, fmt.Errorf("failed to create epoch: %w", err)
	}

	s.logger.Info("Epoch created", "epoch_id", epoch.ID, "slug", epoch.Slug, "created_by", actor.UserID)
	return epoch, nil
}

func (s *editorService) UpdateEpoch(ctx context.Context, actor models.Actor, id uint, req *EpochRequest) (*models.Epoch, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	epoch, err := s.repo.Content().GetEpoch(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEpochNotFound
		}
		return nil, fmt.Errorf("failed to get epoch: %w", err)
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug != epoch.Slug {
		if existing, err := s.repo.Content().GetEpochBySlug(ctx, slug); err == nil && existing != nil {
			return nil, ErrEpochDuplicateSlug
		} else if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to check epoch slug: %w", err)
		}
	}

	epoch.Slug = slug
	epoch.Name = req.Name
	epoch.Period = req.Period
	epoch.Description = req.Description
	epoch.Position = req.Position
	if err := s.repo.Content().UpdateEpoch(ctx, epoch); err != nil {
		return nil, fmt.Errorf("failed to update epoch: %w", err)
	}

	s.logger.Info("Epoch updated", "epoch_id", epoch.ID, "updated_by", actor.UserID)
	return epoch, nil
}

func (s *editorService) DeleteEpoch(ctx context.Context, actor models.Actor, id uint) error {
	if _, err := s.repo.Content().GetEpoch(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEpochNotFound
		}
		return fmt.Errorf("failed to get epoch: %w", err)
	}
	if err := s.repo.Content().DeleteEpoch(ctx, id); err != nil {
		return fmt.Errorf("failed to delete epoch: %w", err)
	}
	// The delete cascades to the epoch's lessons; sweep their cache entries.
	s.content.InvalidateAllLessons(ctx)
	s.logger.Info("Epoch deleted", "epoch_id", id, "deleted_by", actor.UserID)
	return nil
}

// Lessons

func (s *editorService) CreateLesson(ctx context.Context, actor models.Actor, req *LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.Content().GetEpoch(ctx, req.EpochID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEpochNotFound
		}
		return nil, fmt.Errorf("failed to get epoch: %w", err)
	}

	lesson := &models.Lesson{
		EpochID:   req.EpochID,
		Title:     req.Title,
		Position:  req.Position,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.Content().CreateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.logger.Info("Lesson created", "lesson_id", lesson.ID, "epoch_id", lesson.EpochID, "created_by", actor.UserID)
	return lesson, nil
}

func (s *editorService) UpdateLesson(ctx context.Context, actor models.Actor, id uint, req *LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lesson, err := s.repo.Content().GetLesson(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if req.EpochID != lesson.EpochID {
		if _, err := s.repo.Content().GetEpoch(ctx, req.EpochID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrEpochNotFound
			}
			return nil, fmt.Errorf("failed to get epoch: %w", err)
		}
	}

	lesson.EpochID = req.EpochID
	lesson.Title = req.Title
	lesson.Position = req.Position
	if err := s.repo.Content().UpdateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}

	s.content.InvalidateLesson(ctx, lesson.ID)
	s.logger.Info("Lesson updated", "lesson_id", lesson.ID, "updated_by", actor.UserID)
	return lesson, nil
}

func (s *editorService) DeleteLesson(ctx context.Context, actor models.Actor, id uint) error {
	if _, err := s.repo.Content().GetLesson(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("failed to get lesson: %w", err)
	}
	if err := s.repo.Content().DeleteLesson(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	s.content.InvalidateLesson(ctx, id)
	s.logger.Info("Lesson deleted", "lesson_id", id, "deleted_by", actor.UserID)
	return nil
}

func (s *editorService) SetLessonPublished(ctx context.Context, actor models.Actor, id uint, published bool) (*models.Lesson, error) {
	lesson, err := s.repo.Content().GetLesson(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	wasPublished := lesson.Published
	if err := s.repo.Content().SetLessonPublished(ctx, id, published); err != nil {
		return nil, fmt.Errorf("failed to set lesson published: %w", err)
	}
	lesson.Published = published

	s.content.InvalidateLesson(ctx, id)
	s.logger.Info("Lesson publish state changed",
		"lesson_id", id,
		"published", published,
		"changed_by", actor.UserID)

	if published && !wasPublished {
		if err := s.publisher.Publish(ctx, events.EventLessonPublished, events.LessonPublishedEvent{
			LessonID:    lesson.ID,
			EpochID:     lesson.EpochID,
			Title:       lesson.Title,
			PublishedAt: time.Now(),
			PublishedBy: actor.UserID,
		}); err != nil {
			s.logger.Warn("Failed to publish lesson event", "lesson_id", id, "error", err)
		}
	}
	return lesson, nil
}

// Content blocks

func (s *editorService) CreateBlock(ctx context.Context, actor models.Actor, lessonID uint, req *BlockRequest) (*models.ContentBlock, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	lesson, err := s.repo.Content().GetLesson(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	payload, err := s.checkBlockPayload(ctx, lesson.ID, req.Type, req.Payload)
	if err != nil {
		return nil, err
	}

	block := &models.ContentBlock{
		LessonID: lessonID,
		Position: req.Position,
		Type:     req.Type,
		Payload:  payload,
	}
	if err := s.repo.Content().CreateBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to create content block: %w", err)
	}

	s.content.InvalidateLesson(ctx, lessonID)
	s.logger.Info("Content block created", "block_id", block.ID, "lesson_id", lessonID, "type", block.Type, "created_by", actor.UserID)
	return block, nil
}

func (s *editorService) UpdateBlock(ctx context.Context, actor models.Actor, blockID uint, req *BlockRequest) (*models.ContentBlock, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	block, err := s.repo.Content().GetBlock(ctx, blockID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBlockNotFound
		}
		return nil, fmt.Errorf("failed to get content block: %w", err)
	}

	payload, err := s.checkBlockPayload(ctx, block.LessonID, req.Type, req.Payload)
	if err != nil {
		return nil, err
	}

	block.Type = req.Type
	block.Position = req.Position
	block.Payload = payload
	if err := s.repo.Content().UpdateBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to update content block: %w", err)
	}

	s.content.InvalidateLesson(ctx, block.LessonID)
	s.logger.Info("Content block updated", "block_id", block.ID, "lesson_id", block.LessonID, "updated_by", actor.UserID)
	return block, nil
}

func (s *editorService) DeleteBlock(ctx context.Context, actor models.Actor, blockID uint) error {
	block, err := s.repo.Content().GetBlock(ctx, blockID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrBlockNotFound
		}
		return fmt.Errorf("failed to get content block: %w", err)
	}
	if err := s.repo.Content().DeleteBlock(ctx, blockID); err != nil {
		return fmt.Errorf("failed to delete content block: %w", err)
	}
	s.content.InvalidateLesson(ctx, block.LessonID)
	s.logger.Info("Content block deleted", "block_id", blockID, "lesson_id", block.LessonID, "deleted_by", actor.UserID)
	return nil
}

// checkBlockPayload decodes the payload against the block type and, for quiz
// blocks, verifies every referenced question belongs to the lesson.
func (s *editorService) checkBlockPayload(ctx context.Context, lessonID uint, blockType models.BlockType, raw json.RawMessage) (datatypes.JSON, error) {
	switch blockType {
	case models.BlockText:
		var p models.TextBlockPayload
		if err := json.Unmarshal(raw, &p); err != nil || p.Body == "" {
			return nil, fmt.Errorf("%w: text block needs a body", ErrBlockInvalidType)
		}
	case models.BlockImage:
		var p models.ImageBlockPayload
		if err := json.Unmarshal(raw, &p); err != nil || p.URL == "" {
			return nil, fmt.Errorf("%w: image block needs a url", ErrBlockInvalidType)
		}
	case models.BlockVideo:
		var p models.VideoBlockPayload
		if err := json.Unmarshal(raw, &p); err != nil || p.URL == "" {
			return nil, fmt.Errorf("%w: video block needs a url", ErrBlockInvalidType)
		}
	case models.BlockQuiz:
		var p models.QuizBlockPayload
		if err := json.Unmarshal(raw, &p); err != nil || len(p.QuestionIDs) == 0 {
			return nil, fmt.Errorf("%w: quiz block needs question ids", ErrBlockInvalidType)
		}
		questions, err := s.repo.Question().GetByIDs(ctx, p.QuestionIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load quiz block questions: %w", err)
		}
		known := make(map[uint]bool, len(questions))
		for _, q := range questions {
			if q.LessonID == lessonID {
				known[q.ID] = true
			}
		}
		for _, id := range p.QuestionIDs {
			if !known[id] {
				return nil, fmt.Errorf("%w: question %d does not belong to lesson %d", ErrQuestionNotFound, id, lessonID)
			}
		}
	default:
		return nil, ErrBlockInvalidType
	}
	return datatypes.JSON(raw), nil
}

// Questions

func (s *editorService) CreateQuestion(ctx context.Context, actor models.Actor, lessonID uint, req *QuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.Content().GetLesson(ctx, lessonID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	question := &models.Question{
		LessonID:  lessonID,
		Kind:      req.Kind,
		Prompt:    req.Prompt,
		Position:  req.Position,
		Content:   datatypes.JSON(req.Content),
		CreatedBy: actor.UserID,
	}
	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuestionInvalidContent, err)
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.content.InvalidateLesson(ctx, lessonID)
	s.logger.Info("Question created", "question_id", question.ID, "lesson_id", lessonID, "kind", question.Kind, "created_by", actor.UserID)
	return question, nil
}

func (s *editorService) UpdateQuestion(ctx context.Context, actor models.Actor, questionID uint, req *QuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	question.Kind = req.Kind
	question.Prompt = req.Prompt
	question.Position = req.Position
	question.Content = datatypes.JSON(req.Content)
	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuestionInvalidContent, err)
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.content.InvalidateLesson(ctx, question.LessonID)
	s.logger.Info("Question updated", "question_id", question.ID, "lesson_id", question.LessonID, "updated_by", actor.UserID)
	return question, nil
}

func (s *editorService) DeleteQuestion(ctx context.Context, actor models.Actor, questionID uint) error {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}
	if err := s.repo.Question().Delete(ctx, questionID); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	s.content.InvalidateLesson(ctx, question.LessonID)
	s.logger.Info("Question deleted", "question_id", questionID, "lesson_id", question.LessonID, "deleted_by", actor.UserID)
	return nil
}
