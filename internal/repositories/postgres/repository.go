package postgres

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed aggregate. A Repository built inside
// Transaction shares the transactional *gorm.DB across all domains.
type Repository struct {
	db *gorm.DB

	content  repositories.ContentRepository
	question repositories.QuestionRepository
	result   repositories.ResultRepository
	message  repositories.MessageRepository
	booking  repositories.BookingRepository
	user     repositories.UserRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:       db,
		content:  NewContentPostgreSQL(db),
		question: NewQuestionPostgreSQL(db),
		result:   NewResultPostgreSQL(db),
		message:  NewMessagePostgreSQL(db),
		booking:  NewBookingPostgreSQL(db),
		user:     NewUserPostgreSQL(db),
	}
}

func (r *Repository) Content() repositories.ContentRepository   { return r.content }
func (r *Repository) Question() repositories.QuestionRepository { return r.question }
func (r *Repository) Result() repositories.ResultRepository     { return r.result }
func (r *Repository) Message() repositories.MessageRepository   { return r.message }
func (r *Repository) Booking() repositories.BookingRepository   { return r.booking }
func (r *Repository) User() repositories.UserRepository         { return r.user }

func (r *Repository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Epoch{},
		&models.Lesson{},
		&models.ContentBlock{},
		&models.Question{},
		&models.QuizResult{},
		&models.Message{},
		&models.ExamSlot{},
		&models.ExamBooking{},
	)
}
