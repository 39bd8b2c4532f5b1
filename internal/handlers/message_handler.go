package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/realtime"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"github.com/epokowo/epokowo-service/internal/services"
)

// MessageHandler exposes direct messaging and the unread badge.
type MessageHandler struct {
	BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    NewBaseHandler(logger),
		messageService: messageService,
	}
}

// Send delivers a message to another user.
func (h *MessageHandler) Send(c *gin.Context) {
	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), currentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// Conversation returns the exchange with one other user, newest first.
func (h *MessageHandler) Conversation(c *gin.Context) {
	otherUserID := parseStringParam(c, "user_id")
	if otherUserID == "" {
		return
	}

	filters := repositories.MessageFilters{
		Before: parseTimeQueryPtr(c, "before"),
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}

	messages, total, err := h.messageService.Conversation(c.Request.Context(), currentActor(c), otherUserID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PagedResponse{Items: messages, Total: total})
}

// MarkRead stamps one message addressed to the caller as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	messageID := parseIDParam(c, "id")
	if messageID == 0 {
		return
	}

	if err := h.messageService.MarkRead(c.Request.Context(), currentActor(c), messageID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Message marked as read"})
}

// MarkConversationRead stamps every unread message from one sender.
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	senderID := parseStringParam(c, "user_id")
	if senderID == "" {
		return
	}

	if err := h.messageService.MarkConversationRead(c.Request.Context(), currentActor(c), senderID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Conversation marked as read"})
}

// StreamBadge streams the caller's unread badge over server-sent events.
// The first event carries the current count; subsequent events fire whenever
// a message arrives or gets read, until the client disconnects.
func (h *MessageHandler) StreamBadge(c *gin.Context) {
	actor := currentActor(c)
	ctx := c.Request.Context()

	count, err := h.messageService.UnreadCount(ctx, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	updates := make(chan realtime.BadgeUpdate, 16)
	sub, err := h.messageService.SubscribeBadge(ctx, actor, func(update realtime.BadgeUpdate) {
		select {
		case updates <- update:
		default:
			// Slow consumer; the next update carries the full count anyway.
		}
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer sub.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("badge", gin.H{"unread_count": count})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case update := <-updates:
			c.SSEvent("badge", gin.H{"unread_count": update.UnreadCount})
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// UnreadCount returns the caller's unread badge value.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageService.UnreadCount(c.Request.Context(), currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
