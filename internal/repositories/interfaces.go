package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository aggregates the per-domain repositories. Transaction runs fn with
// a Repository bound to one database transaction; returning an error rolls
// back.
type Repository interface {
	Content() ContentRepository
	Question() QuestionRepository
	Result() ResultRepository
	Message() MessageRepository
	Booking() BookingRepository
	User() UserRepository

	Transaction(ctx context.Context, fn func(Repository) error) error
}

// IsNotFoundError reports whether err is the driver's record-not-found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type LessonFilters struct {
	EpochID       *uint `json:"epoch_id"`
	PublishedOnly bool  `json:"published_only"`
	Limit         int   `json:"limit"`
	Offset        int   `json:"offset"`
}

type MessageFilters struct {
	Before *time.Time `json:"before"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type SlotFilters struct {
	EpochID *uint      `json:"epoch_id"`
	From    *time.Time `json:"from"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
}
