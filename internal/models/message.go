package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	SenderID    string `json:"sender_id" gorm:"not null;size:255;index:idx_messages_pair"`
	RecipientID string `json:"recipient_id" gorm:"not null;size:255;index:idx_messages_pair"`
	Body        string `json:"body" gorm:"type:text;not null" validate:"required,min=1,max=5000"`

	ReadAt    *time.Time     `json:"read_at" gorm:"index"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Sender    *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Recipient *User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}
