package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// QuizAttempt 一次提交的结果，写入后不再修改
// swagger:model QuizAttempt
type QuizAttempt struct {
	ID               string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           string          `gorm:"index;type:varchar(36);not null" json:"userId"`
	QuizID           string          `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Quiz             *Quiz           `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Answers          json.RawMessage `gorm:"type:json;not null" json:"answers"`
	MarkedForReview  json.RawMessage `gorm:"type:json;not null" json:"markedForReview"`
	Score            int             `json:"score"`
	TotalQuestions   int             `gorm:"not null" json:"totalQuestions"`
	Passed           bool            `json:"passed"`
	IQScore          *int            `gorm:"column:iq_score" json:"iqScore"`
	IQLabel          *string         `gorm:"column:iq_label;size:100" json:"iqLabel"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
	StartedAt        time.Time       `gorm:"not null" json:"startedAt"`
	CompletedAt      *time.Time      `gorm:"index" json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = GenerateUUID()
	}
	return nil
}
