package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/epokowo/epokowo-service/internal/events"
	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/realtime"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"github.com/epokowo/epokowo-service/internal/validator"
)

// MessageService handles direct messages between users, including the unread
// badge the frontend shows next to the inbox.
type MessageService interface {
	Send(ctx context.Context, actor models.Actor, req *SendMessageRequest) (*models.Message, error)
	Conversation(ctx context.Context, actor models.Actor, otherUserID string, filters repositories.MessageFilters) ([]*models.Message, int64, error)
	MarkRead(ctx context.Context, actor models.Actor, messageID uint) error
	MarkConversationRead(ctx context.Context, actor models.Actor, senderID string) error
	UnreadCount(ctx context.Context, actor models.Actor) (int64, error)
	SubscribeBadge(ctx context.Context, actor models.Actor, fn func(realtime.BadgeUpdate)) (*realtime.Subscription, error)
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required,min=1,max=4000"`
}

type messageService struct {
	repo      repositories.Repository
	hub       *realtime.Hub
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMessageService(repo repositories.Repository, hub *realtime.Hub, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) MessageService {
	return &messageService{
		repo:      repo,
		hub:       hub,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *messageService) Send(ctx context.Context, actor models.Actor, req *SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.RecipientID == actor.UserID {
		return nil, ErrMessageToSelf
	}

	if _, err := s.repo.User().GetByID(ctx, req.RecipientID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to look up recipient: %w", err)
	}

	message := &models.Message{
		SenderID:    actor.UserID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}
	if err := s.repo.Message().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.logger.Info("Message sent",
		"message_id", message.ID,
		"sender_id", actor.UserID,
		"recipient_id", req.RecipientID)

	s.notifyRecipient(ctx, message)
	return message, nil
}

// notifyRecipient pushes the recipient's fresh unread count to the realtime
// badge and emits the platform event. Both are best-effort; the message is
// already stored.
func (s *messageService) notifyRecipient(ctx context.Context, message *models.Message) {
	unread, err := s.repo.Message().UnreadCount(ctx, message.RecipientID)
	if err != nil {
		s.logger.Warn("Failed to count unread messages", "recipient_id", message.RecipientID, "error", err)
		return
	}

	s.hub.PublishBadge(ctx, message.RecipientID, unread)

	if err := s.publisher.Publish(ctx, events.EventMessageSent, events.MessageSentEvent{
		MessageID:   message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		SentAt:      message.CreatedAt,
		UnreadCount: unread,
	}); err != nil {
		s.logger.Warn("Failed to publish message event", "message_id", message.ID, "error", err)
	}
}

func (s *messageService) Conversation(ctx context.Context, actor models.Actor, otherUserID string, filters repositories.MessageFilters) ([]*models.Message, int64, error) {
	messages, total, err := s.repo.Message().Conversation(ctx, actor.UserID, otherUserID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load conversation: %w", err)
	}
	return messages, total, nil
}

func (s *messageService) MarkRead(ctx context.Context, actor models.Actor, messageID uint) error {
	if err := s.repo.Message().MarkRead(ctx, messageID, actor.UserID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	s.republishBadge(ctx, actor.UserID)
	return nil
}

func (s *messageService) MarkConversationRead(ctx context.Context, actor models.Actor, senderID string) error {
	if err := s.repo.Message().MarkConversationRead(ctx, actor.UserID, senderID); err != nil {
		return fmt.Errorf("failed to mark conversation read: %w", err)
	}
	s.republishBadge(ctx, actor.UserID)
	return nil
}

func (s *messageService) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	count, err := s.repo.Message().UnreadCount(ctx, actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// SubscribeBadge opens a live feed of the caller's own unread-count changes.
// The returned subscription stays open until Stop or ctx cancellation.
func (s *messageService) SubscribeBadge(ctx context.Context, actor models.Actor, fn func(realtime.BadgeUpdate)) (*realtime.Subscription, error) {
	sub, err := s.hub.Subscribe(ctx, actor.UserID, fn)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe badge feed: %w", err)
	}
	return sub, nil
}

// republishBadge pushes the shrunken unread count after reads so open tabs
// drop the badge without polling.
func (s *messageService) republishBadge(ctx context.Context, userID string) {
	unread, err := s.repo.Message().UnreadCount(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to count unread messages", "user_id", userID, "error", err)
		return
	}
	s.hub.PublishBadge(ctx, userID, unread)
}
