package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/quiz"
	"github.com/epokowo/epokowo-service/internal/services"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PagedResponse wraps list payloads with their total count
type PagedResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger *slog.Logger
}

func NewBaseHandler(logger *slog.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", currentUserID(c),
	}
	fields = append(fields, additionalFields...)
	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", currentUserID(c),
	}
	fields = append(fields, additionalFields...)
	h.logger.Error(message, fields...)
}

// handleServiceError maps service sentinel errors to HTTP status codes.
// Unrecognized errors become a 500 and are logged with full detail.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationError,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrQuestionInvalidKind),
		errors.Is(err, services.ErrQuestionInvalidContent),
		errors.Is(err, services.ErrBlockInvalidType),
		errors.Is(err, services.ErrQuizEmpty):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrEpochNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrBlockNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrResultNotFound),
		errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrRecipientNotFound),
		errors.Is(err, services.ErrSlotNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrLessonNotPublished):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrEpochDuplicateSlug),
		errors.Is(err, services.ErrMessageToSelf),
		errors.Is(err, services.ErrSlotFull),
		errors.Is(err, services.ErrSlotInPast),
		errors.Is(err, services.ErrAlreadyBooked),
		errors.Is(err, services.ErrSessionNotFinished),
		errors.Is(err, quiz.ErrNotAnswered):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
