package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Epoch is one literary-historical period (antyk, romantyzm, ...). Epochs are
// the top-level navigation unit; lessons hang off them in a fixed order.
type Epoch struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Name        string `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Period      string `json:"period" gorm:"size:100"` // e.g. "1822–1863"
	Description string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Position    int    `json:"position" gorm:"not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:EpochID"`
}

func (Epoch) TableName() string {
	return "epochs"
}

type Lesson struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	EpochID   uint   `json:"epoch_id" gorm:"not null;index"`
	Title     string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Position  int    `json:"position" gorm:"not null;index"`
	Published bool   `json:"published" gorm:"default:false;index"`

	CreatedBy string         `json:"created_by" gorm:"size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Epoch     *Epoch         `json:"epoch,omitempty" gorm:"foreignKey:EpochID"`
	Blocks    []ContentBlock `json:"blocks,omitempty" gorm:"foreignKey:LessonID"`
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:LessonID"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
	BlockVideo BlockType = "video"
	BlockQuiz  BlockType = "quiz"
)

// ContentBlock is one ordered slice of a lesson page. The payload shape
// depends on Type; quiz blocks reference lesson question IDs.
type ContentBlock struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	LessonID uint           `json:"lesson_id" gorm:"not null;index"`
	Position int            `json:"position" gorm:"not null;index"`
	Type     BlockType      `json:"type" gorm:"not null;size:20" validate:"required,oneof=text image video quiz"`
	Payload  datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ContentBlock) TableName() string {
	return "content_blocks"
}

// Block payloads, decoded from ContentBlock.Payload by Type.

type TextBlockPayload struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body"`
}

type ImageBlockPayload struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

type VideoBlockPayload struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type QuizBlockPayload struct {
	QuestionIDs []uint `json:"question_ids"`
}
