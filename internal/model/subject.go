package model

const DefaultThemeColor = "217 91% 60%"

// Subject 题库分类，premium 科目需要付费
// swagger:model Subject
type Subject struct {
	UUIDBase
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	IsPremium   bool    `gorm:"default:false;not null" json:"isPremium"`
	ThemeColor  string  `gorm:"size:32;not null;default:'217 91% 60%'" json:"themeColor"` // HSL
	Quizzes     []Quiz  `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"quizzes,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}
