package models

import (
	"time"

	"gorm.io/gorm"
)

// ExamSlot is one bookable exam sitting for an epoch. Booked is maintained
// inside the booking transaction and never exceeds Capacity.
type ExamSlot struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	EpochID  uint      `json:"epoch_id" gorm:"not null;index"`
	StartsAt time.Time `json:"starts_at" gorm:"not null;index" validate:"required"`
	Duration int       `json:"duration" gorm:"not null;default:60" validate:"min=5,max=480"` // minutes
	Capacity int       `json:"capacity" gorm:"not null" validate:"required,min=1,max=100"`
	Booked   int       `json:"booked" gorm:"not null;default:0"`
	Location string    `json:"location" gorm:"size:200"`

	CreatedBy string         `json:"created_by" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Epoch    *Epoch        `json:"epoch,omitempty" gorm:"foreignKey:EpochID"`
	Bookings []ExamBooking `json:"bookings,omitempty" gorm:"foreignKey:SlotID"`
}

func (ExamSlot) TableName() string {
	return "exam_slots"
}

func (s *ExamSlot) HasCapacity() bool {
	return s.Booked < s.Capacity
}

type ExamBooking struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	SlotID uint   `json:"slot_id" gorm:"not null;uniqueIndex:idx_bookings_slot_user"`
	UserID string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_bookings_slot_user"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Slot *ExamSlot `json:"slot,omitempty" gorm:"foreignKey:SlotID"`
	User *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (ExamBooking) TableName() string {
	return "exam_bookings"
}
