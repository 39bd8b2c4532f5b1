package models

import "time"

// QuizResult is the per-(user, lesson) best score. One row per pair; the
// result sink keeps the maximum score across attempts and counts them.
type QuizResult struct {
	UserID         string `json:"user_id" gorm:"primaryKey;size:255"`
	LessonID       uint   `json:"lesson_id" gorm:"primaryKey"`
	BestScore      int    `json:"best_score" gorm:"not null"`
	TotalQuestions int    `json:"total_questions" gorm:"not null"`
	Attempts       int    `json:"attempts" gorm:"not null;default:1"`

	UpdatedAt time.Time `json:"updated_at"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Lesson *Lesson `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
