package repository

import (
	"context"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"

	"gorm.io/gorm"
)

// IqGradeRepository 科目等级与全局等级分两次查询，不在数据层合并
type IqGradeRepository struct {
	DB *gorm.DB
}

func NewIqGradeRepository(db *gorm.DB) *IqGradeRepository {
	return &IqGradeRepository{DB: db}
}

func (r *IqGradeRepository) ListAll(ctx context.Context) ([]model.IqGrade, error) {
	var grades []model.IqGrade
	err := r.DB.WithContext(ctx).Preload("Subject").Order("min_score_percentage asc").Find(&grades).Error
	return grades, err
}

func (r *IqGradeRepository) ListBySubject(ctx context.Context, subjectID string) ([]model.IqGrade, error) {
	var grades []model.IqGrade
	err := r.DB.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("min_score_percentage asc").
		Find(&grades).Error
	return grades, err
}

func (r *IqGradeRepository) ListGlobal(ctx context.Context) ([]model.IqGrade, error) {
	var grades []model.IqGrade
	err := r.DB.WithContext(ctx).
		Where("subject_id IS NULL").
		Order("min_score_percentage asc").
		Find(&grades).Error
	return grades, err
}

func (r *IqGradeRepository) Create(ctx context.Context, g *model.IqGrade) error {
	return r.DB.WithContext(ctx).Omit("Subject").Create(g).Error
}

func (r *IqGradeRepository) FindByID(ctx context.Context, id string) (*model.IqGrade, error) {
	var g model.IqGrade
	if err := r.DB.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, notFound(err, util.ErrIqGradeNotFound)
	}
	return &g, nil
}

func (r *IqGradeRepository) Update(ctx context.Context, g *model.IqGrade) error {
	return r.DB.WithContext(ctx).Omit("Subject").Save(g).Error
}

func (r *IqGradeRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.IqGrade{}, "id = ?", id).Error
}
