package postgres

import (
	"context"
	"time"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"gorm.io/gorm"
)

type MessagePostgreSQL struct {
	db *gorm.DB
}

func NewMessagePostgreSQL(db *gorm.DB) repositories.MessageRepository {
	return &MessagePostgreSQL{db: db}
}

func (m *MessagePostgreSQL) Create(ctx context.Context, message *models.Message) error {
	return m.db.WithContext(ctx).Create(message).Error
}

func (m *MessagePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := m.db.WithContext(ctx).First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (m *MessagePostgreSQL) Conversation(ctx context.Context, userA, userB string, filters repositories.MessageFilters) ([]*models.Message, int64, error) {
	var messages []*models.Message
	var total int64

	query := m.db.WithContext(ctx).Model(&models.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA)
	if filters.Before != nil {
		query = query.Where("created_at < ?", *filters.Before)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := query.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (m *MessagePostgreSQL) MarkRead(ctx context.Context, id uint, recipientID string) error {
	result := m.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", id, recipientID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either not found, not addressed to this user, or already read.
		// Distinguish the first two for the caller.
		var count int64
		if err := m.db.WithContext(ctx).Model(&models.Message{}).
			Where("id = ? AND recipient_id = ?", id, recipientID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (m *MessagePostgreSQL) MarkConversationRead(ctx context.Context, recipientID, senderID string) error {
	return m.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", recipientID, senderID).
		Update("read_at", time.Now()).Error
}

func (m *MessagePostgreSQL) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := m.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
