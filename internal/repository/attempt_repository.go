package repository

import (
	"context"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"

	"gorm.io/gorm"
)

// AttemptRepository 答题记录只插入、不更新
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Omit("Quiz").Create(attempt).Error
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Preload("Quiz.Subject").
		Preload("Quiz.Questions", orderByIndex).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, util.ErrAttemptNotFound)
	}
	return &a, nil
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Preload("Quiz.Subject").
		Where("user_id = ?", userID).
		Order("completed_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListAll(ctx context.Context) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).Order("completed_at desc").Find(&attempts).Error
	return attempts, err
}
