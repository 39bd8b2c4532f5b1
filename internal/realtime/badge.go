// Package realtime delivers unread-badge updates over redis pub/sub. Each
// change to a user's unread message count is published to that user's channel;
// consumers hold an explicit Subscription handle whose lifecycle they own.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// BadgeUpdate is one unread-count change event for one user.
type BadgeUpdate struct {
	UserID      string    `json:"user_id"`
	UnreadCount int64     `json:"unread_count"`
	At          time.Time `json:"at"`
}

type Hub struct {
	client *redis.Client
	logger *slog.Logger
}

func NewHub(client *redis.Client, logger *slog.Logger) *Hub {
	return &Hub{
		client: client,
		logger: logger,
	}
}

func badgeChannel(userID string) string {
	return "badge:" + userID
}

// PublishBadge pushes the user's current unread count to their channel.
// Fire-and-forget: delivery failures are logged, never fatal to the caller.
func (h *Hub) PublishBadge(ctx context.Context, userID string, unread int64) {
	update := BadgeUpdate{
		UserID:      userID,
		UnreadCount: unread,
		At:          time.Now(),
	}
	data, err := json.Marshal(update)
	if err != nil {
		h.logger.Error("Failed to marshal badge update", "user_id", userID, "error", err)
		return
	}
	if err := h.client.Publish(ctx, badgeChannel(userID), data).Err(); err != nil {
		h.logger.Warn("Failed to publish badge update", "user_id", userID, "error", err)
	}
}

// Subscription is one live badge feed for one user. Stop releases the
// underlying pubsub; after Stop returns no further callbacks fire.
type Subscription struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Subscription) Stop() {
	s.cancel()
	s.pubsub.Close()
	<-s.done
}

// Subscribe starts a badge feed for userID, invoking fn on every update until
// Stop is called or ctx is cancelled. The callback runs on the subscription's
// own goroutine.
func (h *Hub) Subscribe(ctx context.Context, userID string, fn func(BadgeUpdate)) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	pubsub := h.client.Subscribe(subCtx, badgeChannel(userID))
	// Force the subscription onto the wire before returning so callers never
	// miss updates published right after Subscribe.
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		pubsub.Close()
		return nil, fmt.Errorf("subscribe badge channel for %s: %w", userID, err)
	}

	sub := &Subscription{
		pubsub: pubsub,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update BadgeUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					h.logger.Warn("Discarding malformed badge update", "user_id", userID, "error", err)
					continue
				}
				fn(update)
			}
		}
	}()

	return sub, nil
}
