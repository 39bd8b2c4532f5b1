package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/epokowo/epokowo-service/internal/cache"
	"github.com/epokowo/epokowo-service/internal/models"
)

func newContentServiceForTest(repo *MockRepository, cacheService *MockCacheService) ContentService {
	return NewContentService(repo, cacheService, testLogger(), 5*time.Minute)
}

func publishedLesson(t *testing.T, id uint) *models.Lesson {
	t.Helper()
	q := abcdQuestion(t, 11, "Autor Pana Tadeusza?", 0, "Mickiewicz", "Krasicki")
	q.LessonID = id
	return &models.Lesson{
		ID:        id,
		EpochID:   1,
		Title:     "Romantyzm - wstep",
		Published: true,
		Questions: []models.Question{q},
	}
}

func TestContentService_GetLesson(t *testing.T) {
	ctx := context.Background()
	learner := models.Actor{UserID: "student-1"}
	admin := models.Actor{UserID: "admin-1", IsAdmin: true}

	t.Run("learner cache miss strips answer keys and caches full copy", func(t *testing.T) {
		repo := newMockRepository()
		cacheService := &MockCacheService{}
		service := newContentServiceForTest(repo, cacheService)

		lesson := publishedLesson(t, 5)
		cacheService.On("Get", mock.Anything, "lesson:5", mock.Anything).Return(cache.ErrCacheMiss).Once()
		repo.contentRepo.On("GetLessonWithBlocks", mock.Anything, uint(5)).Return(lesson, nil).Once()
		cacheService.On("Set", mock.Anything, "lesson:5", mock.Anything, 5*time.Minute).Return(nil).Once()

		got, err := service.GetLesson(ctx, 5, learner)
		require.NoError(t, err)
		require.Len(t, got.Questions, 1)
		assert.Nil(t, got.Questions[0].Content)
		cacheService.AssertExpectations(t)
		repo.contentRepo.AssertExpectations(t)
	})

	t.Run("learner cache hit serves stripped copy without touching the database", func(t *testing.T) {
		repo := newMockRepository()
		cacheService := &MockCacheService{}
		service := newContentServiceForTest(repo, cacheService)

		cached := publishedLesson(t, 5)
		cacheService.On("Get", mock.Anything, "lesson:5", mock.Anything).
			Run(func(args mock.Arguments) {
				dest := args.Get(2).(*models.Lesson)
				*dest = *cached
			}).Return(nil).Once()

		got, err := service.GetLesson(ctx, 5, learner)
		require.NoError(t, err)
		require.Len(t, got.Questions, 1)
		assert.Nil(t, got.Questions[0].Content)
		repo.contentRepo.AssertNotCalled(t, "GetLessonWithBlocks", mock.Anything, mock.Anything)
	})

	t.Run("learner cannot read an unpublished lesson", func(t *testing.T) {
		repo := newMockRepository()
		cacheService := &MockCacheService{}
		service := newContentServiceForTest(repo, cacheService)

		draft := publishedLesson(t, 6)
		draft.Published = false
		cacheService.On("Get", mock.Anything, "lesson:6", mock.Anything).Return(cache.ErrCacheMiss).Once()
		repo.contentRepo.On("GetLessonWithBlocks", mock.Anything, uint(6)).Return(draft, nil).Once()
		cacheService.On("Set", mock.Anything, "lesson:6", mock.Anything, 5*time.Minute).Return(nil).Once()

		_, err := service.GetLesson(ctx, 6, learner)
		assert.ErrorIs(t, err, ErrLessonNotPublished)
	})

	t.Run("admin reads drafts through the cache with keys intact", func(t *testing.T) {
		repo := newMockRepository()
		cacheService := &MockCacheService{}
		service := newContentServiceForTest(repo, cacheService)

		draft := publishedLesson(t, 7)
		draft.Published = false
		repo.contentRepo.On("GetLessonWithBlocks", mock.Anything, uint(7)).Return(draft, nil).Once()

		got, err := service.GetLesson(ctx, 7, admin)
		require.NoError(t, err)
		assert.False(t, got.Published)
		require.Len(t, got.Questions, 1)
		assert.NotNil(t, got.Questions[0].Content)
		cacheService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing lesson maps to not found", func(t *testing.T) {
		repo := newMockRepository()
		cacheService := &MockCacheService{}
		service := newContentServiceForTest(repo, cacheService)

		cacheService.On("Get", mock.Anything, "lesson:9", mock.Anything).Return(cache.ErrCacheMiss).Once()
		repo.contentRepo.On("GetLessonWithBlocks", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := service.GetLesson(ctx, 9, learner)
		assert.ErrorIs(t, err, ErrLessonNotFound)
	})
}

func TestContentService_QuizQuestions(t *testing.T) {
	ctx := context.Background()
	learner := models.Actor{UserID: "student-1"}

	t.Run("returns decoded questions in stored order", func(t *testing.T) {
		repo := newMockRepository()
		service := newContentServiceForTest(repo, &MockCacheService{})

		first := abcdQuestion(t, 1, "Epoka Kochanowskiego?", 0, "renesans", "barok")
		second := abcdQuestion(t, 2, "Epoka Mickiewicza?", 1, "barok", "romantyzm")
		repo.contentRepo.On("GetLesson", mock.Anything, uint(3)).
			Return(&models.Lesson{ID: 3, Published: true}, nil).Once()
		repo.questionRepo.On("ListByLesson", mock.Anything, uint(3)).
			Return([]*models.Question{&first, &second}, nil).Once()

		questions, err := service.QuizQuestions(ctx, 3, learner)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, uint(1), questions[0].ID)
		assert.Equal(t, uint(2), questions[1].ID)
	})

	t.Run("unpublished lesson is hidden from learners", func(t *testing.T) {
		repo := newMockRepository()
		service := newContentServiceForTest(repo, &MockCacheService{})

		repo.contentRepo.On("GetLesson", mock.Anything, uint(4)).
			Return(&models.Lesson{ID: 4, Published: false}, nil).Once()

		_, err := service.QuizQuestions(ctx, 4, learner)
		assert.ErrorIs(t, err, ErrLessonNotPublished)
	})

	t.Run("lesson without questions has no quiz", func(t *testing.T) {
		repo := newMockRepository()
		service := newContentServiceForTest(repo, &MockCacheService{})

		repo.contentRepo.On("GetLesson", mock.Anything, uint(3)).
			Return(&models.Lesson{ID: 3, Published: true}, nil).Once()
		repo.questionRepo.On("ListByLesson", mock.Anything, uint(3)).
			Return([]*models.Question{}, nil).Once()

		_, err := service.QuizQuestions(ctx, 3, learner)
		assert.ErrorIs(t, err, ErrQuizEmpty)
	})

	t.Run("malformed content is rejected at the boundary", func(t *testing.T) {
		repo := newMockRepository()
		service := newContentServiceForTest(repo, &MockCacheService{})

		broken := &models.Question{ID: 8, Kind: models.KindAbcd, Prompt: "?", Content: datatypes.JSON([]byte("{not json"))}
		repo.contentRepo.On("GetLesson", mock.Anything, uint(3)).
			Return(&models.Lesson{ID: 3, Published: true}, nil).Once()
		repo.questionRepo.On("ListByLesson", mock.Anything, uint(3)).
			Return([]*models.Question{broken}, nil).Once()

		_, err := service.QuizQuestions(ctx, 3, learner)
		assert.ErrorIs(t, err, ErrQuestionInvalidContent)
	})
}

func TestContentService_GetEpochBySlug(t *testing.T) {
	repo := newMockRepository()
	service := newContentServiceForTest(repo, &MockCacheService{})

	repo.contentRepo.On("GetEpochBySlug", mock.Anything, "romantyzm").
		Return(&models.Epoch{ID: 2, Slug: "romantyzm", Name: "Romantyzm"}, nil).Once()
	repo.contentRepo.On("GetEpochBySlug", mock.Anything, "nope").
		Return(nil, gorm.ErrRecordNotFound).Once()

	epoch, err := service.GetEpochBySlug(context.Background(), "romantyzm")
	require.NoError(t, err)
	assert.Equal(t, "Romantyzm", epoch.Name)

	_, err = service.GetEpochBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrEpochNotFound)
}
