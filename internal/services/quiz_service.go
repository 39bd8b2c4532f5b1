package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/epokowo/epokowo-service/internal/events"
	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/quiz"
	"github.com/epokowo/epokowo-service/internal/repositories"
)

// QuizService runs server-tracked quiz sessions and owns the result sink.
// One session belongs to one learner on one instance; only the final
// (score, total) is persisted.
type QuizService interface {
	StartSession(ctx context.Context, lessonID uint, actor models.Actor, questions []models.Question) (*SessionState, error)
	AnswerCurrent(ctx context.Context, sessionID string, actor models.Actor, req *AnswerRequest) (*AnswerOutcome, error)
	Advance(ctx context.Context, sessionID string, actor models.Actor) (*SessionState, error)
	ResetSession(ctx context.Context, sessionID string, actor models.Actor) (*SessionState, error)

	// SubmitResult is the bare result sink for client-graded in-lesson
	// mini-quizzes: upsert best score, increment attempts.
	SubmitResult(ctx context.Context, actor models.Actor, lessonID uint, score, total int) (*SubmitOutcome, error)

	GetMyResults(ctx context.Context, actor models.Actor) ([]*models.QuizResult, error)
}

// SessionState is the handler-facing view of a session after a transition.
type SessionState struct {
	SessionID string `json:"session_id"`
	LessonID  uint   `json:"lesson_id"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Score     int    `json:"score"`
	Answered  bool   `json:"answered"`
	Finished  bool   `json:"finished"`

	// Current question presentation; answer keys are stripped. Nil once
	// finished.
	Question *QuestionView `json:"question,omitempty"`

	// Set when finishing triggered the persistence call and it failed; the
	// score above is still authoritative for this attempt.
	ResultWarning string `json:"result_warning,omitempty"`
}

// QuestionView is a question as shown to the learner: prompt and inputs, no
// answer key.
type QuestionView struct {
	ID     uint                `json:"id"`
	Kind   models.QuestionKind `json:"kind"`
	Prompt string              `json:"prompt"`

	Options       []string   `json:"options,omitempty"`        // abcd
	TextWithGaps  string     `json:"text_with_gaps,omitempty"` // fill_blank
	GapCount      int        `json:"gap_count,omitempty"`      // fill_blank
	LeftItems     []string   `json:"left_items,omitempty"`     // matching
	RightItems    []string   `json:"right_items,omitempty"`    // matching, session shuffle
	Headers       []string   `json:"headers,omitempty"`        // table_gap
	Rows          [][]string `json:"rows,omitempty"`           // table_gap, gaps blank
	ShuffledItems []string   `json:"shuffled_items,omitempty"` // ordering
}

// AnswerRequest carries one response; the field matching the current
// question's kind is read, the rest are ignored.
type AnswerRequest struct {
	SelectedIndex *int        `json:"selected_index,omitempty"`
	Answers       []string    `json:"answers,omitempty"`
	Selections    map[int]int `json:"selections,omitempty"`
	Rows          [][]string  `json:"rows,omitempty"`
	Order         []string    `json:"order,omitempty"`
}

type AnswerOutcome struct {
	Correct bool `json:"correct"`
	Counted bool `json:"counted"`
	Score   int  `json:"score"`
}

type SubmitOutcome struct {
	Result  *models.QuizResult `json:"result,omitempty"`
	Warning string             `json:"warning,omitempty"`
}

type quizService struct {
	repo      repositories.Repository
	sessions  *quiz.SessionStore
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewQuizService(repo repositories.Repository, sessions *quiz.SessionStore, publisher events.EventPublisher, logger *slog.Logger) QuizService {
	return &quizService{
		repo:      repo,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *quizService) StartSession(ctx context.Context, lessonID uint, actor models.Actor, questions []models.Question) (*SessionState, error) {
	session, err := quiz.NewSession(questions)
	if err != nil {
		if errors.Is(err, quiz.ErrNoQuestions) {
			return nil, ErrQuizEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrQuestionInvalidContent, err)
	}

	entry := s.sessions.Put(actor.UserID, lessonID, session)
	s.logger.Info("Quiz session started",
		"session_id", entry.ID,
		"lesson_id", lessonID,
		"user_id", actor.UserID,
		"questions", session.Total())

	return s.state(entry, ""), nil
}

func (s *quizService) AnswerCurrent(ctx context.Context, sessionID string, actor models.Actor, req *AnswerRequest) (*AnswerOutcome, error) {
	entry, err := s.sessions.Get(sessionID, actor.UserID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	response := buildResponse(entry.Session.Current().Kind, req)
	correct, counted := entry.Session.Answer(response)

	return &AnswerOutcome{
		Correct: correct,
		Counted: counted,
		Score:   entry.Session.Score(),
	}, nil
}

func (s *quizService) Advance(ctx context.Context, sessionID string, actor models.Actor) (*SessionState, error) {
	entry, err := s.sessions.Get(sessionID, actor.UserID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	alreadyFinished := entry.Session.Finished()
	if err := entry.Session.Advance(); err != nil {
		return nil, err
	}

	var warning string
	if entry.Session.Finished() && !alreadyFinished {
		// Exactly one persistence call per completed attempt.
		score, total, _ := entry.Session.Result()
		outcome, err := s.SubmitResult(ctx, actor, entry.LessonID, score, total)
		if err != nil {
			return nil, err
		}
		warning = outcome.Warning
	}

	return s.state(entry, warning), nil
}

func (s *quizService) ResetSession(ctx context.Context, sessionID string, actor models.Actor) (*SessionState, error) {
	entry, err := s.sessions.Get(sessionID, actor.UserID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	entry.Session.Reset()
	return s.state(entry, ""), nil
}

func (s *quizService) SubmitResult(ctx context.Context, actor models.Actor, lessonID uint, score, total int) (*SubmitOutcome, error) {
	if total <= 0 || score < 0 || score > total {
		return nil, ErrValidationFailed
	}

	result := &models.QuizResult{
		UserID:         actor.UserID,
		LessonID:       lessonID,
		BestScore:      score,
		TotalQuestions: total,
		UpdatedAt:      time.Now(),
	}

	if err := s.repo.Result().UpsertBest(ctx, result); err != nil {
		// Non-fatal: the learner keeps their in-memory score; only the
		// historical best-score record missed this attempt.
		s.logger.Error("Failed to persist quiz result",
			"user_id", actor.UserID,
			"lesson_id", lessonID,
			"score", score,
			"error", err)
		return &SubmitOutcome{
			Warning: "result could not be saved; your score for this attempt is shown but may not be recorded",
		}, nil
	}

	stored, err := s.repo.Result().GetByUserAndLesson(ctx, actor.UserID, lessonID)
	if err != nil {
		s.logger.Warn("Failed to reload stored quiz result", "user_id", actor.UserID, "lesson_id", lessonID, "error", err)
		stored = result
	}

	if err := s.publisher.Publish(ctx, events.EventQuizCompleted, events.QuizCompletedEvent{
		UserID:         actor.UserID,
		LessonID:       lessonID,
		Score:          score,
		TotalQuestions: total,
		CompletedAt:    time.Now(),
	}); err != nil {
		s.logger.Warn("Failed to publish quiz completion event", "user_id", actor.UserID, "lesson_id", lessonID, "error", err)
	}

	return &SubmitOutcome{Result: stored}, nil
}

func (s *quizService) GetMyResults(ctx context.Context, actor models.Actor) ([]*models.QuizResult, error) {
	results, err := s.repo.Result().ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (s *quizService) state(entry *quiz.SessionEntry, warning string) *SessionState {
	session := entry.Session
	state := &SessionState{
		SessionID:     entry.ID,
		LessonID:      entry.LessonID,
		Index:         session.Index(),
		Total:         session.Total(),
		Score:         session.Score(),
		Answered:      session.Answered(),
		Finished:      session.Finished(),
		ResultWarning: warning,
	}
	if !session.Finished() {
		state.Question = viewOf(session)
	}
	return state
}

// viewOf strips answer keys from the current question for presentation.
func viewOf(session *quiz.Session) *QuestionView {
	q := session.Current()
	view := &QuestionView{
		ID:     q.ID,
		Kind:   q.Kind,
		Prompt: q.Prompt,
	}

	switch c := session.CurrentContent().(type) {
	case *models.AbcdContent:
		view.Options = make([]string, len(c.Options))
		for i, option := range c.Options {
			view.Options[i] = option.Text
		}
	case *models.FillBlankContent:
		view.TextWithGaps = c.TextWithGaps
		view.GapCount = len(c.Answers)
	case *models.MatchingContent:
		view.LeftItems = make([]string, len(c.Pairs))
		for i, pair := range c.Pairs {
			view.LeftItems[i] = pair.Left
		}
		view.RightItems = session.ShuffledRight()
	case *models.TableGapContent:
		view.Headers = c.Headers
		view.Rows = c.Rows
	case *models.OrderingContent:
		view.ShuffledItems = session.ShuffledItems()
	}
	return view
}

// buildResponse picks the request field matching the question kind. A request
// missing that field yields a zero-value response, which grades incorrect.
func buildResponse(kind models.QuestionKind, req *AnswerRequest) quiz.Response {
	switch kind {
	case models.KindAbcd:
		selected := -1
		if req.SelectedIndex != nil {
			selected = *req.SelectedIndex
		}
		return quiz.AbcdResponse{SelectedIndex: selected}
	case models.KindFillBlank:
		return quiz.FillBlankResponse{Answers: req.Answers}
	case models.KindMatching:
		return quiz.MatchingResponse{Selections: req.Selections}
	case models.KindTableGap:
		return quiz.TableGapResponse{Rows: req.Rows}
	case models.KindOrdering:
		return quiz.OrderingResponse{Order: req.Order}
	}
	return nil
}
