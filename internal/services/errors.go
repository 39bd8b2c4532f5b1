package services

import (
	"errors"

	apperrors "github.com/epokowo/epokowo-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Content specific errors
	ErrEpochNotFound      = errors.New("epoch not found")
	ErrEpochDuplicateSlug = errors.New("epoch slug already exists")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonNotPublished = errors.New("lesson is not published")
	ErrBlockNotFound      = errors.New("content block not found")
	ErrBlockInvalidType   = errors.New("invalid content block type")

	// Question specific errors
	ErrQuestionNotFound       = errors.New("question not found")
	ErrQuestionInvalidKind    = errors.New("invalid question kind")
	ErrQuestionInvalidContent = errors.New("invalid question content for kind")
	ErrQuizEmpty              = errors.New("lesson has no quiz questions")

	// Quiz session / result errors
	ErrSessionNotFound    = errors.New("quiz session not found")
	ErrSessionNotFinished = errors.New("quiz session not finished")
	ErrResultNotFound     = errors.New("quiz result not found")

	// Messaging errors
	ErrMessageNotFound   = errors.New("message not found")
	ErrMessageToSelf     = errors.New("cannot send a message to yourself")
	ErrRecipientNotFound = errors.New("recipient not found")

	// Exam calendar errors
	ErrSlotNotFound    = errors.New("exam slot not found")
	ErrSlotFull        = errors.New("exam slot is fully booked")
	ErrSlotInPast      = errors.New("exam slot is in the past")
	ErrAlreadyBooked   = errors.New("user already booked this slot")
	ErrBookingNotFound = errors.New("booking not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

var NewValidationError = apperrors.NewValidationError
