package database

import (
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultIqGrades 全局默认 IQ 等级，覆盖 0-100 的整数百分比。
// 相邻等级之间留有空隙（如 39-40、94-95），落在空隙里的非整数百分比不返回 IQ。
func DefaultIqGrades() []model.IqGrade {
	return []model.IqGrade{
		{MinScorePercentage: 0, MaxScorePercentage: 39, MinIQ: 70, MaxIQ: 84, Label: "Below Average"},
		{MinScorePercentage: 40, MaxScorePercentage: 59, MinIQ: 85, MaxIQ: 99, Label: "Low Average"},
		{MinScorePercentage: 60, MaxScorePercentage: 74, MinIQ: 100, MaxIQ: 114, Label: "Average"},
		{MinScorePercentage: 75, MaxScorePercentage: 84, MinIQ: 115, MaxIQ: 129, Label: "Above Average"},
		{MinScorePercentage: 85, MaxScorePercentage: 94, MinIQ: 130, MaxIQ: 144, Label: "Superior"},
		{MinScorePercentage: 95, MaxScorePercentage: 100, MinIQ: 145, MaxIQ: 160, Label: "Genius"},
	}
}

// Seed 仅在表为空时写入默认数据
func Seed(db *gorm.DB) error {
	var gradeCount int64
	if err := db.Model(&model.IqGrade{}).Count(&gradeCount).Error; err != nil {
		return err
	}
	if gradeCount == 0 {
		grades := DefaultIqGrades()
		if err := db.Create(&grades).Error; err != nil {
			return err
		}
		logger.Log.Info("Seeded default IQ grades", zap.Int("count", len(grades)))
	}

	var settingsCount int64
	if err := db.Model(&model.PaymentSettings{}).Count(&settingsCount).Error; err != nil {
		return err
	}
	if settingsCount == 0 {
		settings := &model.PaymentSettings{MembershipPrice: model.DefaultMembershipPrice}
		if err := db.Create(settings).Error; err != nil {
			return err
		}
		logger.Log.Info("Seeded default payment settings")
	}

	return nil
}
