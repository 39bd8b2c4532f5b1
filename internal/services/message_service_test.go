package services

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/epokowo/epokowo-service/internal/events"
	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/realtime"
	"github.com/epokowo/epokowo-service/internal/validator"
)

// testHub publishes into a dead redis client; badge delivery is fire-and-forget
// so the failures only produce log noise.
func testHub() *realtime.Hub {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return realtime.NewHub(client, testLogger())
}

func newMessageServiceForTest(repo *MockRepository) (MessageService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	return NewMessageService(repo, testHub(), publisher, testLogger(), validator.New()), publisher
}

func TestMessageService_Send(t *testing.T) {
	actor := models.Actor{UserID: "student-1"}
	ctx := context.Background()

	t.Run("stores the message and emits an event with the unread count", func(t *testing.T) {
		repo := newMockRepository()
		service, publisher := newMessageServiceForTest(repo)

		repo.userRepo.On("GetByID", mock.Anything, "teacher-1").
			Return(&models.User{ID: "teacher-1"}, nil).Once()
		repo.messageRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
			return m.SenderID == "student-1" && m.RecipientID == "teacher-1" && m.Body == "Dzien dobry"
		})).Return(nil).Once()
		repo.messageRepo.On("UnreadCount", mock.Anything, "teacher-1").
			Return(int64(3), nil).Once()

		message, err := service.Send(ctx, actor, &SendMessageRequest{
			RecipientID: "teacher-1",
			Body:        "Dzien dobry",
		})
		require.NoError(t, err)
		assert.Equal(t, "student-1", message.SenderID)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventMessageSent, published[0].Type)
		payload := published[0].Data.(events.MessageSentEvent)
		assert.Equal(t, int64(3), payload.UnreadCount)

		repo.messageRepo.AssertExpectations(t)
	})

	t.Run("rejects messaging yourself", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newMessageServiceForTest(repo)

		_, err := service.Send(ctx, actor, &SendMessageRequest{
			RecipientID: "student-1",
			Body:        "hej",
		})
		assert.ErrorIs(t, err, ErrMessageToSelf)
	})

	t.Run("rejects unknown recipients", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newMessageServiceForTest(repo)

		repo.userRepo.On("GetByID", mock.Anything, "ghost").
			Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := service.Send(ctx, actor, &SendMessageRequest{
			RecipientID: "ghost",
			Body:        "hej",
		})
		assert.ErrorIs(t, err, ErrRecipientNotFound)
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newMessageServiceForTest(repo)

		_, err := service.Send(ctx, actor, &SendMessageRequest{RecipientID: "teacher-1"})
		assert.Error(t, err)
	})
}

func TestMessageService_MarkRead(t *testing.T) {
	actor := models.Actor{UserID: "teacher-1"}
	ctx := context.Background()

	t.Run("marks and republishes the badge", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newMessageServiceForTest(repo)

		repo.messageRepo.On("MarkRead", mock.Anything, uint(42), "teacher-1").Return(nil).Once()
		repo.messageRepo.On("UnreadCount", mock.Anything, "teacher-1").Return(int64(0), nil).Once()

		require.NoError(t, service.MarkRead(ctx, actor, 42))
		repo.messageRepo.AssertExpectations(t)
	})

	t.Run("unknown message", func(t *testing.T) {
		repo := newMockRepository()
		service, _ := newMessageServiceForTest(repo)

		repo.messageRepo.On("MarkRead", mock.Anything, uint(42), "teacher-1").
			Return(gorm.ErrRecordNotFound).Once()

		err := service.MarkRead(ctx, actor, 42)
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestMessageService_UnreadCount(t *testing.T) {
	repo := newMockRepository()
	service, _ := newMessageServiceForTest(repo)

	repo.messageRepo.On("UnreadCount", mock.Anything, "student-1").Return(int64(7), nil).Once()

	count, err := service.UnreadCount(context.Background(), models.Actor{UserID: "student-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
