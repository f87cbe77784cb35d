package model

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	SubjectID          string     `gorm:"index;type:varchar(36);not null" json:"subjectId"`
	Subject            *Subject   `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Title              string     `gorm:"size:255;not null" json:"title"`
	Description        *string    `gorm:"type:text" json:"description"`
	PassMarkPercentage int        `gorm:"default:50;not null" json:"passMarkPercentage"`
	TimeLimitMinutes   *int       `json:"timeLimitMinutes"`
	InstantFeedback    bool       `gorm:"default:false;not null" json:"instantFeedback"`
	RandomizeQuestions bool       `gorm:"default:false;not null" json:"randomizeQuestions"`
	Questions          []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Scenarios          []Scenario `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"scenarios,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
