package repositories

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)

	// Conversation returns messages exchanged between the two users, newest
	// first, with the total count for paging.
	Conversation(ctx context.Context, userA, userB string, filters MessageFilters) ([]*models.Message, int64, error)

	// MarkRead stamps ReadAt on a message addressed to recipientID; already
	// read messages are left untouched.
	MarkRead(ctx context.Context, id uint, recipientID string) error
	MarkConversationRead(ctx context.Context, recipientID, senderID string) error

	UnreadCount(ctx context.Context, userID string) (int64, error)
}
