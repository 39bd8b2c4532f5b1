package handlers

import (
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/services"
)

// QuizHandler exposes quizzes to learners: the keys-stripped question list,
// the session-based test player, and the result sink.
type QuizHandler struct {
	BaseHandler
	quizService    services.QuizService
	contentService services.ContentService
}

type SubmitResultRequest struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

func NewQuizHandler(quizService services.QuizService, contentService services.ContentService, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:    NewBaseHandler(logger),
		quizService:    quizService,
		contentService: contentService,
	}
}

// GetQuiz returns the lesson's questions in stored order with answer keys
// stripped. Shuffled kinds get a fresh presentation permutation per request.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	questions, err := h.contentService.QuizQuestions(c.Request.Context(), lessonID, currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	views := make([]*services.QuestionView, 0, len(questions))
	for i := range questions {
		view, err := learnerQuestionView(&questions[i])
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// SubmitResult is the bare result sink for client-graded in-lesson quizzes.
func (h *QuizHandler) SubmitResult(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	var req SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	outcome, err := h.quizService.SubmitResult(c.Request.Context(), currentActor(c), lessonID, req.Score, req.Total)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// GetMyResults returns the caller's best scores across lessons.
func (h *QuizHandler) GetMyResults(c *gin.Context) {
	results, err := h.quizService.GetMyResults(c.Request.Context(), currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// StartSession opens a server-tracked attempt at the lesson's quiz.
func (h *QuizHandler) StartSession(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}
	actor := currentActor(c)

	questions, err := h.contentService.QuizQuestions(c.Request.Context(), lessonID, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	state, err := h.quizService.StartSession(c.Request.Context(), lessonID, actor, questions)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// AnswerCurrent grades the response to the session's current question.
func (h *QuizHandler) AnswerCurrent(c *gin.Context) {
	sessionID := parseStringParam(c, "id")
	if sessionID == "" {
		return
	}

	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	outcome, err := h.quizService.AnswerCurrent(c.Request.Context(), sessionID, currentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Advance moves to the next question; finishing the last question persists
// the result.
func (h *QuizHandler) Advance(c *gin.Context) {
	sessionID := parseStringParam(c, "id")
	if sessionID == "" {
		return
	}

	state, err := h.quizService.Advance(c.Request.Context(), sessionID, currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ResetSession restarts the attempt with fresh shuffles and a zero score.
func (h *QuizHandler) ResetSession(c *gin.Context) {
	sessionID := parseStringParam(c, "id")
	if sessionID == "" {
		return
	}

	state, err := h.quizService.ResetSession(c.Request.Context(), sessionID, currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// learnerQuestionView builds the presentation of one question with its answer
// key stripped; matching and ordering kinds get a per-request shuffle.
func learnerQuestionView(q *models.Question) (*services.QuestionView, error) {
	content, err := q.DecodeContent()
	if err != nil {
		return nil, err
	}

	view := &services.QuestionView{
		ID:     q.ID,
		Kind:   q.Kind,
		Prompt: q.Prompt,
	}
	switch c := content.(type) {
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
		right := make([]string, len(c.Pairs))
		for i, pair := range c.Pairs {
			view.LeftItems[i] = pair.Left
			right[i] = pair.Right
		}
		rand.Shuffle(len(right), func(a, b int) {
			right[a], right[b] = right[b], right[a]
		})
		view.RightItems = right
	case *models.TableGapContent:
		view.Headers = c.Headers
		view.Rows = c.Rows
	case *models.OrderingContent:
		items := make([]string, len(c.Items))
		copy(items, c.Items)
		rand.Shuffle(len(items), func(a, b int) {
			items[a], items[b] = items[b], items[a]
		})
		view.ShuffledItems = items
	}
	return view, nil
}
