package model

// Scenario 阅读理解材料，多道题共享同一段文章，仅用于展示
// swagger:model Scenario
type Scenario struct {
	UUIDBase
	QuizID     string     `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Title      *string    `gorm:"size:255" json:"title"`
	Passage    string     `gorm:"type:text;not null" json:"passage"`
	OrderIndex int        `gorm:"not null;default:0" json:"orderIndex"`
	Questions  []Question `gorm:"foreignKey:ScenarioID" json:"questions,omitempty"`
}

func (Scenario) TableName() string {
	return "scenarios"
}
