package postgres

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingPostgreSQL struct {
	db *gorm.DB
}

func NewBookingPostgreSQL(db *gorm.DB) repositories.BookingRepository {
	return &BookingPostgreSQL{db: db}
}

// ===== SLOTS =====

func (b *BookingPostgreSQL) ListSlots(ctx context.Context, filters repositories.SlotFilters) ([]*models.ExamSlot, int64, error) {
	var slots []*models.ExamSlot
	var total int64

	query := b.db.WithContext(ctx).Model(&models.ExamSlot{})
	if filters.EpochID != nil {
		query = query.Where("epoch_id = ?", *filters.EpochID)
	}
	if filters.From != nil {
		query = query.Where("starts_at >= ?", *filters.From)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := query.Preload("Epoch").Order("starts_at ASC").Find(&slots).Error; err != nil {
		return nil, 0, err
	}
	return slots, total, nil
}

func (b *BookingPostgreSQL) GetSlot(ctx context.Context, id uint) (*models.ExamSlot, error) {
	var slot models.ExamSlot
	if err := b.db.WithContext(ctx).Preload("Epoch").First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (b *BookingPostgreSQL) GetSlotForUpdate(ctx context.Context, id uint) (*models.ExamSlot, error) {
	var slot models.ExamSlot
	if err := b.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (b *BookingPostgreSQL) CreateSlot(ctx context.Context, slot *models.ExamSlot) error {
	return b.db.WithContext(ctx).Create(slot).Error
}

func (b *BookingPostgreSQL) UpdateSlot(ctx context.Context, slot *models.ExamSlot) error {
	return b.db.WithContext(ctx).Save(slot).Error
}

func (b *BookingPostgreSQL) DeleteSlot(ctx context.Context, id uint) error {
	return b.db.WithContext(ctx).Delete(&models.ExamSlot{}, id).Error
}

// ===== BOOKINGS =====

func (b *BookingPostgreSQL) CreateBooking(ctx context.Context, booking *models.ExamBooking) error {
	return b.db.WithContext(ctx).Create(booking).Error
}

func (b *BookingPostgreSQL) GetBooking(ctx context.Context, id uint) (*models.ExamBooking, error) {
	var booking models.ExamBooking
	if err := b.db.WithContext(ctx).Preload("Slot").First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (b *BookingPostgreSQL) GetBookingBySlotAndUser(ctx context.Context, slotID uint, userID string) (*models.ExamBooking, error) {
	var booking models.ExamBooking
	if err := b.db.WithContext(ctx).
		Where("slot_id = ? AND user_id = ?", slotID, userID).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (b *BookingPostgreSQL) ListBookingsByUser(ctx context.Context, userID string) ([]*models.ExamBooking, error) {
	var bookings []*models.ExamBooking
	if err := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Slot").Preload("Slot.Epoch").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (b *BookingPostgreSQL) DeleteBooking(ctx context.Context, id uint) error {
	result := b.db.WithContext(ctx).Delete(&models.ExamBooking{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
