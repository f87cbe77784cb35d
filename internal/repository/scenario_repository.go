package repository

import (
	"context"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"

	"gorm.io/gorm"
)

type ScenarioRepository struct {
	DB *gorm.DB
}

func NewScenarioRepository(db *gorm.DB) *ScenarioRepository {
	return &ScenarioRepository{DB: db}
}

func (r *ScenarioRepository) ListByQuiz(ctx context.Context, quizID string) ([]model.Scenario, error) {
	var ss []model.Scenario
	err := r.DB.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Preload("Questions", orderByIndex).
		Order("order_index asc").
		Find(&ss).Error
	return ss, err
}

func (r *ScenarioRepository) CountByQuiz(ctx context.Context, quizID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Scenario{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *ScenarioRepository) Create(ctx context.Context, s *model.Scenario) error {
	return r.DB.WithContext(ctx).Omit("Questions").Create(s).Error
}

func (r *ScenarioRepository) FindByID(ctx context.Context, id string) (*model.Scenario, error) {
	var s model.Scenario
	if err := r.DB.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err, util.ErrScenarioNotFound)
	}
	return &s, nil
}

func (r *ScenarioRepository) Update(ctx context.Context, s *model.Scenario) error {
	return r.DB.WithContext(ctx).Omit("Questions").Save(s).Error
}

// Delete 删除材料，原属题目变为独立题目
func (r *ScenarioRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Question{}).Where("scenario_id = ?", id).Update("scenario_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Scenario{}, "id = ?", id).Error
	})
}
