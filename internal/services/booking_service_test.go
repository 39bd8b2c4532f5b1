package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/epokowo/epokowo-service/internal/events"
	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/validator"
)

func newBookingServiceForTest(repo *MockRepository) (BookingService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	return NewBookingService(repo, publisher, testLogger(), validator.New()), publisher
}

func futureSlot(id uint, capacity, booked int) *models.ExamSlot {
	return &models.ExamSlot{
		ID:       id,
		EpochID:  1,
		StartsAt: time.Now().Add(48 * time.Hour),
		Duration: 30,
		Capacity: capacity,
		Booked:   booked,
		Location: "sala 101",
	}
}

func TestBookingService_Book(t *testing.T) {
	actor := models.Actor{UserID: "student-1"}
	ctx := context.Background()

	t.Run("claims a seat and bumps the counter", func(t *testing.T) {
		repo := newMockRepository()
		service, publisher := newBookingServiceForTest(repo)

		repo.bookingRepo.On("GetSlotForUpdate", mock.Anything, uint(10)).
			Return(futureSlot(10, 5, 2), nil).Once()
		repo.bookingRepo.On("GetBookingBySlotAndUser", mock.Anything, uint(10), "student-1").
			Return(nil, gorm.ErrRecordNotFound).Once()
		repo.bookingRepo.On("CreateBooking", mock.Anything, mock.MatchedBy(func(b *models.ExamBooking) bool {
			return b.SlotID == 10 && b.UserID == "student-1"
		})).Return(nil).Once()
		repo.bookingRepo.On("UpdateSlot", mock.Anything, mock.MatchedBy(func(s *models.ExamSlot) bool {
			return s.ID == 10 && s.Booked == 3
		})).Return(nil).Once()

		booking, err := service.Book(ctx, actor, 10)
		require.NoError(t, err)
		assert.Equal(t, uint(10), booking.SlotID)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventBookingCreated, published[0].Type)

		repo.bookingRepo.AssertExpectations(t)
	})

	t.Run("full slot", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newBookingServiceForTest(repo)

		repo.bookingRepo.On("GetSlotForUpdate", mock.Anything, uint(10)).
			Return(futureSlot(10, 2, 2), nil).Once()

		_, err := service.Book(ctx, actor, 10)
		assert.ErrorIs(t, err, ErrSlotFull)
	})

	t.Run("slot already started", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newBookingServiceForTest(repo)

		past := futureSlot(10, 5, 0)
		past.StartsAt = time.Now().Add(-time.Hour)
		repo.bookingRepo.On("GetSlotForUpdate", mock.Anything, uint(10)).
			Return(past, nil).Once()

		_, err := service.Book(ctx, actor, 10)
		assert.ErrorIs(t, err, ErrSlotInPast)
	})

	t.Run("double booking", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newBookingServiceForTest(repo)

		repo.bookingRepo.On("GetSlotForUpdate", mock.Anything, uint(10)).
			Return(futureSlot(10, 5, 1), nil).Once()
		repo.bookingRepo.On("GetBookingBySlotAndUser", mock.Anything, uint(10), "student-1").
			Return(&models.ExamBooking{ID: 3, SlotID: 10, UserID: "student-1"}, nil).Once()

		_, err := service.Book(ctx, actor, 10)
		assert.ErrorIs(t, err, ErrAlreadyBooked)
	})

	t.Run("unknown slot", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newBookingServiceForTest(repo)

		repo.bookingRepo.On("GetSlotForUpdate", mock.Anything, uint(99)).
			Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := service.Book(ctx, actor, 99)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner releases the seat", func(t *testing.T) {
		repo := newMockRepository()
		service, publisher := newBookingServiceForTest(repo)

		repo.bookingRepo.On("GetBooking", mock.Anything, uint(3)).
			Return(&models.ExamBooking{ID: 3, SlotID: 10, UserID: "student-1"}, nil).Once()
		repo.bookingRepo.On("GetSlotForUpdate", mock.Anything, uint(10)).
			Return(futureSlot(10, 5, 3), nil).Once()
		repo.bookingRepo.On("DeleteBooking", mock.Anything, uint(3)).Return(nil).Once()
		repo.bookingRepo.On("UpdateSlot", mock.Anything, mock.MatchedBy(func(s *models.ExamSlot) bool {
			return s.Booked == 2
		})).Return(nil).Once()

		require.NoError(t, service.Cancel(ctx, models.Actor{UserID: "student-1"}, 3))

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventBookingCancelled, published[0].Type)
	})

	t.Run("someone else's booking looks like it does not exist", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newBookingServiceForTest(repo)

		repo.bookingRepo.On("GetBooking", mock.Anything, uint(3)).
			Return(&models.ExamBooking{ID: 3, SlotID: 10, UserID: "student-1"}, nil).Once()

		err := service.Cancel(ctx, models.Actor{UserID: "student-2"}, 3)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("admins can cancel any booking", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newBookingServiceForTest(repo)

		repo.bookingRepo.On("GetBooking", mock.Anything, uint(3)).
			Return(&models.ExamBooking{ID: 3, SlotID: 10, UserID: "student-1"}, nil).Once()
		repo.bookingRepo.On("GetSlotForUpdate", mock.Anything, uint(10)).
			Return(futureSlot(10, 5, 1), nil).Once()
		repo.bookingRepo.On("DeleteBooking", mock.Anything, uint(3)).Return(nil).Once()
		repo.bookingRepo.On("UpdateSlot", mock.Anything, mock.Anything).Return(nil).Once()

		require.NoError(t, service.Cancel(ctx, models.Actor{UserID: "admin-1", IsAdmin: true}, 3))
	})
}

func TestBookingService_CreateSlot(t *testing.T) {
	ctx := context.Background()
	admin := models.Actor{UserID: "admin-1", IsAdmin: true}

	t.Run("rejects slots in the past", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newBookingServiceForTest(repo)

		_, err := service.CreateSlot(ctx, admin, &CreateSlotRequest{
			EpochID:  1,
			StartsAt: time.Now().Add(-time.Hour),
			Duration: 30,
			Capacity: 5,
		})
		assert.ErrorIs(t, err, ErrSlotInPast)
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newBookingServiceForTest(repo)

		_, err := service.CreateSlot(ctx, admin, &CreateSlotRequest{
			EpochID:  1,
			StartsAt: time.Now().Add(time.Hour),
			Duration: 30,
		})
		assert.Error(t, err)
	})
}
