package events

import (
	"time"
)

// EventType represents different types of platform events
type EventType string

const (
	// Messaging events
	EventMessageSent EventType = "message.sent"

	// Quiz events
	EventQuizCompleted EventType = "quiz.completed"

	// Exam calendar events
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"

	// Content events
	EventLessonPublished EventType = "lesson.published"
)

// PlatformEvent is the envelope shared by all published events.
type PlatformEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Messaging event payloads

type MessageSentEvent struct {
	MessageID   uint      `json:"message_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	SentAt      time.Time `json:"sent_at"`
	UnreadCount int64     `json:"unread_count"` // recipient's unread total after this message
}

// Quiz event payloads

type QuizCompletedEvent struct {
	UserID         string    `json:"user_id"`
	LessonID       uint      `json:"lesson_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Exam calendar event payloads

type BookingCreatedEvent struct {
	BookingID uint      `json:"booking_id"`
	SlotID    uint      `json:"slot_id"`
	UserID    string    `json:"user_id"`
	StartsAt  time.Time `json:"starts_at"`
	Location  string    `json:"location,omitempty"`
}

type BookingCancelledEvent struct {
	BookingID   uint      `json:"booking_id"`
	SlotID      uint      `json:"slot_id"`
	UserID      string    `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// Content event payloads

type LessonPublishedEvent struct {
	LessonID    uint      `json:"lesson_id"`
	EpochID     uint      `json:"epoch_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	PublishedBy string    `json:"published_by"`
}
