package model

// IqGrade 分数区间到 IQ 区间的映射，SubjectID 为空表示全局
// swagger:model IqGrade
type IqGrade struct {
	UUIDBase
	SubjectID          *string  `gorm:"index;type:varchar(36)" json:"subjectId"`
	Subject            *Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
	MinScorePercentage int      `gorm:"not null" json:"minScorePercentage"`
	MaxScorePercentage int      `gorm:"not null" json:"maxScorePercentage"`
	MinIQ              int      `gorm:"column:min_iq;not null" json:"minIQ"`
	MaxIQ              int      `gorm:"column:max_iq;not null" json:"maxIQ"`
	Label              string   `gorm:"size:100;not null" json:"label"`
}

func (IqGrade) TableName() string {
	return "iq_grades"
}
