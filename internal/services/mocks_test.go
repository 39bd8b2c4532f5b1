package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
)

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) ListEpochs(ctx context.Context) ([]*models.Epoch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Epoch), args.Error(1)
}

func (m *MockContentRepository) GetEpoch(ctx context.Context, id uint) (*models.Epoch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Epoch), args.Error(1)
}

func (m *MockContentRepository) GetEpochBySlug(ctx context.Context, slug string) (*models.Epoch, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Epoch), args.Error(1)
}

func (m *MockContentRepository) CreateEpoch(ctx context.Context, epoch *models.Epoch) error {
	args := m.Called(ctx, epoch)
	return args.Error(0)
}

func (m *MockContentRepository) UpdateEpoch(ctx context.Context, epoch *models.Epoch) error {
	args := m.Called(ctx, epoch)
	return args.Error(0)
}

func (m *MockContentRepository) DeleteEpoch(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentRepository) ListLessons(ctx context.Context, filters repositories.LessonFilters) ([]*models.Lesson, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Lesson), args.Get(1).(int64), args.Error(2)
}

func (m *MockContentRepository) GetLesson(ctx context.Context, id uint) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockContentRepository) GetLessonWithBlocks(ctx context.Context, id uint) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockContentRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockContentRepository) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockContentRepository) DeleteLesson(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentRepository) SetLessonPublished(ctx context.Context, id uint, published bool) error {
	args := m.Called(ctx, id, published)
	return args.Error(0)
}

func (m *MockContentRepository) ListBlocks(ctx context.Context, lessonID uint) ([]*models.ContentBlock, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContentBlock), args.Error(1)
}

func (m *MockContentRepository) GetBlock(ctx context.Context, id uint) (*models.ContentBlock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContentBlock), args.Error(1)
}

func (m *MockContentRepository) CreateBlock(ctx context.Context, block *models.ContentBlock) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockContentRepository) UpdateBlock(ctx context.Context, block *models.ContentBlock) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockContentRepository) DeleteBlock(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListByLesson(ctx context.Context, lessonID uint) ([]*models.Question, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCacheService is a mock implementation of cache.CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

// MockResultRepository is a mock implementation of ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) UpsertBest(ctx context.Context, result *models.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByUserAndLesson(ctx context.Context, userID string, lessonID uint) (*models.QuizResult, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizResult), args.Error(1)
}

func (m *MockResultRepository) ListByUser(ctx context.Context, userID string) ([]*models.QuizResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuizResult), args.Error(1)
}

func (m *MockResultRepository) ListByLesson(ctx context.Context, lessonID uint) ([]*models.QuizResult, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuizResult), args.Error(1)
}

// MockMessageRepository is a mock implementation of MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) Conversation(ctx context.Context, userA, userB string, filters repositories.MessageFilters) ([]*models.Message, int64, error) {
	args := m.Called(ctx, userA, userB, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id uint, recipientID string) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

func (m *MockMessageRepository) MarkConversationRead(ctx context.Context, recipientID, senderID string) error {
	args := m.Called(ctx, recipientID, senderID)
	return args.Error(0)
}

func (m *MockMessageRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) ListSlots(ctx context.Context, filters repositories.SlotFilters) ([]*models.ExamSlot, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.ExamSlot), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) GetSlot(ctx context.Context, id uint) (*models.ExamSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSlot), args.Error(1)
}

func (m *MockBookingRepository) GetSlotForUpdate(ctx context.Context, id uint) (*models.ExamSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSlot), args.Error(1)
}

func (m *MockBookingRepository) CreateSlot(ctx context.Context, slot *models.ExamSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateSlot(ctx context.Context, slot *models.ExamSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockBookingRepository) DeleteSlot(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) CreateBooking(ctx context.Context, booking *models.ExamBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetBooking(ctx context.Context, id uint) (*models.ExamBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamBooking), args.Error(1)
}

func (m *MockBookingRepository) GetBookingBySlotAndUser(ctx context.Context, slotID uint, userID string) (*models.ExamBooking, error) {
	args := m.Called(ctx, slotID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamBooking), args.Error(1)
}

func (m *MockBookingRepository) ListBookingsByUser(ctx context.Context, userID string) ([]*models.ExamBooking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExamBooking), args.Error(1)
}

func (m *MockBookingRepository) DeleteBooking(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRepository aggregates the per-domain mocks. Transaction runs fn against
// the same mock set, which is enough to test the transactional call order.
type MockRepository struct {
	contentRepo  *MockContentRepository
	questionRepo *MockQuestionRepository
	resultRepo   *MockResultRepository
	messageRepo  *MockMessageRepository
	userRepo     *MockUserRepository
	bookingRepo  *MockBookingRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		contentRepo:  &MockContentRepository{},
		questionRepo: &MockQuestionRepository{},
		resultRepo:   &MockResultRepository{},
		messageRepo:  &MockMessageRepository{},
		userRepo:     &MockUserRepository{},
		bookingRepo:  &MockBookingRepository{},
	}
}

func (m *MockRepository) Content() repositories.ContentRepository   { return m.contentRepo }
func (m *MockRepository) Question() repositories.QuestionRepository { return m.questionRepo }
func (m *MockRepository) Result() repositories.ResultRepository     { return m.resultRepo }
func (m *MockRepository) Message() repositories.MessageRepository   { return m.messageRepo }
func (m *MockRepository) Booking() repositories.BookingRepository   { return m.bookingRepo }
func (m *MockRepository) User() repositories.UserRepository         { return m.userRepo }

func (m *MockRepository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
