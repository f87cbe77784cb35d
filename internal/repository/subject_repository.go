package repository

import (
	"context"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Create(subject).Error
}

func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	if err := r.DB.WithContext(ctx).First(&subject, "id = ?", id).Error; err != nil {
		return nil, notFound(err, util.ErrSubjectNotFound)
	}
	return &subject, nil
}

func (r *SubjectRepository) List(ctx context.Context, withQuizzes bool) ([]model.Subject, error) {
	var subjects []model.Subject
	query := r.DB.WithContext(ctx).Order("created_at asc")
	if withQuizzes {
		query = query.Preload("Quizzes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		})
	}
	err := query.Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Omit("Quizzes").Save(subject).Error
}

// Delete 级联删除科目下的测验、题目、阅读材料和该科目的 IQ 等级
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quizIDs []string
		if err := tx.Model(&model.Quiz{}).Where("subject_id = ?", id).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := deleteQuizChildren(tx, quizIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", quizIDs).Delete(&model.Quiz{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("subject_id = ?", id).Delete(&model.IqGrade{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Subject{}, "id = ?", id).Error
	})
}
