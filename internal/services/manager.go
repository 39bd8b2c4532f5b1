package services

import (
	"log/slog"
	"time"

	"github.com/epokowo/epokowo-service/internal/cache"
	"github.com/epokowo/epokowo-service/internal/events"
	"github.com/epokowo/epokowo-service/internal/quiz"
	"github.com/epokowo/epokowo-service/internal/realtime"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"github.com/epokowo/epokowo-service/internal/validator"
)

// ServiceManager wires and exposes all business services.
type ServiceManager interface {
	Content() ContentService
	Quiz() QuizService
	Message() MessageService
	Booking() BookingService
	Editor() EditorService
	Export() ExportService
	User() UserService
}

type ManagerConfig struct {
	Repo           repositories.Repository
	Cache          cache.CacheService
	Hub            *realtime.Hub
	Publisher      events.EventPublisher
	Logger         *slog.Logger
	Validator      *validator.Validator
	LessonCacheTTL time.Duration
	QuizSessionTTL time.Duration
}

type serviceManager struct {
	content ContentService
	quiz    QuizService
	message MessageService
	booking BookingService
	editor  EditorService
	export  ExportService
	user    UserService
}

func NewServiceManager(cfg ManagerConfig) ServiceManager {
	content := NewContentService(cfg.Repo, cfg.Cache, cfg.Logger, cfg.LessonCacheTTL)
	sessions := quiz.NewSessionStore(cfg.QuizSessionTTL)

	return &serviceManager{
		content: content,
		quiz:    NewQuizService(cfg.Repo, sessions, cfg.Publisher, cfg.Logger),
		message: NewMessageService(cfg.Repo, cfg.Hub, cfg.Publisher, cfg.Logger, cfg.Validator),
		booking: NewBookingService(cfg.Repo, cfg.Publisher, cfg.Logger, cfg.Validator),
		editor:  NewEditorService(cfg.Repo, content, cfg.Publisher, cfg.Logger, cfg.Validator),
		export:  NewExportService(cfg.Repo, content, cfg.Logger, cfg.Validator),
		user:    NewUserService(cfg.Repo, cfg.Logger),
	}
}

func (m *serviceManager) Content() ContentService { return m.content }
func (m *serviceManager) Quiz() QuizService       { return m.quiz }
func (m *serviceManager) Message() MessageService { return m.message }
func (m *serviceManager) Booking() BookingService { return m.booking }
func (m *serviceManager) Editor() EditorService   { return m.editor }
func (m *serviceManager) Export() ExportService   { return m.export }
func (m *serviceManager) User() UserService       { return m.user }
