package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/epokowo/epokowo-service/internal/events"
	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"github.com/epokowo/epokowo-service/internal/validator"
)

// BookingService manages the oral-exam calendar: admins publish slots with a
// fixed capacity, learners claim at most one seat per slot.
type BookingService interface {
	ListSlots(ctx context.Context, filters repositories.SlotFilters) ([]*models.ExamSlot, int64, error)
	GetSlot(ctx context.Context, id uint) (*models.ExamSlot, error)
	Book(ctx context.Context, actor models.Actor, slotID uint) (*models.ExamBooking, error)
	Cancel(ctx context.Context, actor models.Actor, bookingID uint) error
	MyBookings(ctx context.Context, actor models.Actor) ([]*models.ExamBooking, error)

	// Admin operations
	CreateSlot(ctx context.Context, actor models.Actor, req *CreateSlotRequest) (*models.ExamSlot, error)
	DeleteSlot(ctx context.Context, actor models.Actor, slotID uint) error
}

type CreateSlotRequest struct {
	EpochID  uint      `json:"epoch_id" validate:"required"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	Duration int       `json:"duration" validate:"required,min=5,max=480"` // minutes
	Capacity int       `json:"capacity" validate:"required,min=1,max=100"`
	Location string    `json:"location" validate:"max=255"`
}

type bookingService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewBookingService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) BookingService {
	return &bookingService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *bookingService) ListSlots(ctx context.Context, filters repositories.SlotFilters) ([]*models.ExamSlot, int64, error) {
	slots, total, err := s.repo.Booking().ListSlots(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exam slots: %w", err)
	}
	return slots, total, nil
}

func (s *bookingService) GetSlot(ctx context.Context, id uint) (*models.ExamSlot, error) {
	slot, err := s.repo.Booking().GetSlot(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get exam slot: %w", err)
	}
	return slot, nil
}

// Book claims one seat. The capacity check and the seat counter update run in
// one transaction with the slot row locked, so two learners racing for the
// last seat cannot both win.
func (s *bookingService) Book(ctx context.Context, actor models.Actor, slotID uint) (*models.ExamBooking, error) {
	var booking *models.ExamBooking
	var bookedSlot *models.ExamSlot

	err := s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		slot, err := tx.Booking().GetSlotForUpdate(ctx, slotID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("failed to lock exam slot: %w", err)
		}
		if slot.StartsAt.Before(time.Now()) {
			return ErrSlotInPast
		}
		if !slot.HasCapacity() {
			return ErrSlotFull
		}

		if _, err := tx.Booking().GetBookingBySlotAndUser(ctx, slotID, actor.UserID); err == nil {
			return ErrAlreadyBooked
		} else if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to check existing booking: %w", err)
		}

		booking = &models.ExamBooking{
			SlotID: slotID,
			UserID: actor.UserID,
		}
		if err := tx.Booking().CreateBooking(ctx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		slot.Booked++
		if err := tx.Booking().UpdateSlot(ctx, slot); err != nil {
			return fmt.Errorf("failed to update slot counter: %w", err)
		}
		bookedSlot = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam slot booked",
		"booking_id", booking.ID,
		"slot_id", slotID,
		"user_id", actor.UserID)

	if err := s.publisher.Publish(ctx, events.EventBookingCreated, events.BookingCreatedEvent{
		BookingID: booking.ID,
		SlotID:    slotID,
		UserID:    actor.UserID,
		StartsAt:  bookedSlot.StartsAt,
		Location:  bookedSlot.Location,
	}); err != nil {
		s.logger.Warn("Failed to publish booking event", "booking_id", booking.ID, "error", err)
	}
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor models.Actor, bookingID uint) error {
	var cancelled *models.ExamBooking

	err := s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		booking, err := tx.Booking().GetBooking(ctx, bookingID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to get booking: %w", err)
		}
		// Learners cancel their own bookings; admins can cancel any.
		if booking.UserID != actor.UserID && !actor.IsAdmin {
			return ErrBookingNotFound
		}

		slot, err := tx.Booking().GetSlotForUpdate(ctx, booking.SlotID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("failed to lock exam slot: %w", err)
		}

		if err := tx.Booking().DeleteBooking(ctx, bookingID); err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		if slot.Booked > 0 {
			slot.Booked--
		}
		if err := tx.Booking().UpdateSlot(ctx, slot); err != nil {
			return fmt.Errorf("failed to update slot counter: %w", err)
		}
		cancelled = booking
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Exam booking cancelled",
		"booking_id", bookingID,
		"slot_id", cancelled.SlotID,
		"user_id", cancelled.UserID)

	if err := s.publisher.Publish(ctx, events.EventBookingCancelled, events.BookingCancelledEvent{
		BookingID:   bookingID,
		SlotID:      cancelled.SlotID,
		UserID:      cancelled.UserID,
		CancelledAt: time.Now(),
	}); err != nil {
		s.logger.Warn("Failed to publish booking cancellation event", "booking_id", bookingID, "error", err)
	}
	return nil
}

func (s *bookingService) MyBookings(ctx context.Context, actor models.Actor) ([]*models.ExamBooking, error) {
	bookings, err := s.repo.Booking().ListBookingsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) CreateSlot(ctx context.Context, actor models.Actor, req *CreateSlotRequest) (*models.ExamSlot, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, ErrSlotInPast
	}
	if _, err := s.repo.Content().GetEpoch(ctx, req.EpochID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEpochNotFound
		}
		return nil, fmt.Errorf("failed to get epoch: %w", err)
	}

	slot := &models.ExamSlot{
		EpochID:  req.EpochID,
		StartsAt: req.StartsAt,
		Duration: req.Duration,
		Capacity: req.Capacity,
		Location: req.Location,
	}
	if err := s.repo.Booking().CreateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create exam slot: %w", err)
	}

	s.logger.Info("Exam slot created",
		"slot_id", slot.ID,
		"epoch_id", slot.EpochID,
		"starts_at", slot.StartsAt,
		"capacity", slot.Capacity,
		"created_by", actor.UserID)
	return slot, nil
}

func (s *bookingService) DeleteSlot(ctx context.Context, actor models.Actor, slotID uint) error {
	if _, err := s.repo.Booking().GetSlot(ctx, slotID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("failed to get exam slot: %w", err)
	}

	if err := s.repo.Booking().DeleteSlot(ctx, slotID); err != nil {
		return fmt.Errorf("failed to delete exam slot: %w", err)
	}
	s.logger.Info("Exam slot deleted", "slot_id", slotID, "deleted_by", actor.UserID)
	return nil
}
