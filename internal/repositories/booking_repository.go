package repositories

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
)

type BookingRepository interface {
	// Slots
	ListSlots(ctx context.Context, filters SlotFilters) ([]*models.ExamSlot, int64, error)
	GetSlot(ctx context.Context, id uint) (*models.ExamSlot, error)
	// GetSlotForUpdate locks the slot row for the duration of the enclosing
	// transaction; capacity checks must go through it.
	GetSlotForUpdate(ctx context.Context, id uint) (*models.ExamSlot, error)
	CreateSlot(ctx context.Context, slot *models.ExamSlot) error
	UpdateSlot(ctx context.Context, slot *models.ExamSlot) error
	DeleteSlot(ctx context.Context, id uint) error

	// Bookings
	CreateBooking(ctx context.Context, booking *models.ExamBooking) error
	GetBooking(ctx context.Context, id uint) (*models.ExamBooking, error)
	GetBookingBySlotAndUser(ctx context.Context, slotID uint, userID string) (*models.ExamBooking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]*models.ExamBooking, error)
	DeleteBooking(ctx context.Context, id uint) error
}
