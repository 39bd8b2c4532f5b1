package postgres

import (
	"context"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"gorm.io/gorm"
)

type ContentPostgreSQL struct {
	db *gorm.DB
}

func NewContentPostgreSQL(db *gorm.DB) repositories.ContentRepository {
	return &ContentPostgreSQL{db: db}
}

// ===== EPOCHS =====

func (c *ContentPostgreSQL) ListEpochs(ctx context.Context) ([]*models.Epoch, error) {
	var epochs []*models.Epoch
	if err := c.db.WithContext(ctx).Order("position ASC").Find(&epochs).Error; err != nil {
		return nil, err
	}
	return epochs, nil
}

func (c *ContentPostgreSQL) GetEpoch(ctx context.Context, id uint) (*models.Epoch, error) {
	var epoch models.Epoch
	if err := c.db.WithContext(ctx).First(&epoch, id).Error; err != nil {
		return nil, err
	}
	return &epoch, nil
}

func (c *ContentPostgreSQL) GetEpochBySlug(ctx context.Context, slug string) (*models.Epoch, error) {
	var epoch models.Epoch
	if err := c.db.WithContext(ctx).Where("slug = ?", slug).First(&epoch).Error; err != nil {
		return nil, err
	}
	return &epoch, nil
}

func (c *ContentPostgreSQL) CreateEpoch(ctx context.Context, epoch *models.Epoch) error {
	return c.db.WithContext(ctx).Create(epoch).Error
}

func (c *ContentPostgreSQL) UpdateEpoch(ctx context.Context, epoch *models.Epoch) error {
	return c.db.WithContext(ctx).Save(epoch).Error
}

// DeleteEpoch removes the epoch together with its lessons; orphaned lessons
// would otherwise stay reachable by ID.
func (c *ContentPostgreSQL) DeleteEpoch(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("epoch_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Epoch{}, id).Error
	})
}

// ===== LESSONS =====

func (c *ContentPostgreSQL) ListLessons(ctx context.Context, filters repositories.LessonFilters) ([]*models.Lesson, int64, error) {
	var lessons []*models.Lesson
	var total int64

	query := c.db.WithContext(ctx).Model(&models.Lesson{})
	if filters.EpochID != nil {
		query = query.Where("epoch_id = ?", *filters.EpochID)
	}
	if filters.PublishedOnly {
		query = query.Where("published = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := query.Order("position ASC").Find(&lessons).Error; err != nil {
		return nil, 0, err
	}
	return lessons, total, nil
}

func (c *ContentPostgreSQL) GetLesson(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := c.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *ContentPostgreSQL) GetLessonWithBlocks(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := c.db.WithContext(ctx).
		Preload("Blocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_blocks.position ASC")
		}).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *ContentPostgreSQL) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	return c.db.WithContext(ctx).Create(lesson).Error
}

func (c *ContentPostgreSQL) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	return c.db.WithContext(ctx).Save(lesson).Error
}

func (c *ContentPostgreSQL) DeleteLesson(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Delete(&models.Lesson{}, id).Error
}

func (c *ContentPostgreSQL) SetLessonPublished(ctx context.Context, id uint, published bool) error {
	result := c.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("id = ?", id).
		Update("published", published)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ===== CONTENT BLOCKS =====

func (c *ContentPostgreSQL) ListBlocks(ctx context.Context, lessonID uint) ([]*models.ContentBlock, error) {
	var blocks []*models.ContentBlock
	if err := c.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("position ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (c *ContentPostgreSQL) GetBlock(ctx context.Context, id uint) (*models.ContentBlock, error) {
	var block models.ContentBlock
	if err := c.db.WithContext(ctx).First(&block, id).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (c *ContentPostgreSQL) CreateBlock(ctx context.Context, block *models.ContentBlock) error {
	return c.db.WithContext(ctx).Create(block).Error
}

func (c *ContentPostgreSQL) UpdateBlock(ctx context.Context, block *models.ContentBlock) error {
	return c.db.WithContext(ctx).Save(block).Error
}

func (c *ContentPostgreSQL) DeleteBlock(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Delete(&models.ContentBlock{}, id).Error
}
