package repository

import (
	"context"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func orderByIndex(db *gorm.DB) *gorm.DB {
	return db.Order("order_index asc")
}

func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Omit("Subject", "Questions", "Scenarios").Create(quiz).Error
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.WithContext(ctx).First(&quiz, "id = ?", id).Error; err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	return &quiz, nil
}

// FindWithQuestions 加载测验、所属科目及按 order_index 排序的题目
func (r *QuizRepository) FindWithQuestions(ctx context.Context, id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Subject").
		Preload("Questions", orderByIndex).
		First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	return &quiz, nil
}

// FindForTaking 额外加载阅读材料及其题目
func (r *QuizRepository) FindForTaking(ctx context.Context, id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Subject").
		Preload("Questions", orderByIndex).
		Preload("Scenarios", orderByIndex).
		Preload("Scenarios.Questions", orderByIndex).
		First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	return &quiz, nil
}

func (r *QuizRepository) List(ctx context.Context) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.WithContext(ctx).Preload("Subject").Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Update(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Omit("Subject", "Questions", "Scenarios").Save(quiz).Error
}

func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteQuizChildren(tx, []string{id}); err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}

func deleteQuizChildren(tx *gorm.DB, quizIDs []string) error {
	if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Question{}).Error; err != nil {
		return err
	}
	if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Scenario{}).Error; err != nil {
		return err
	}
	return tx.Where("quiz_id IN ?", quizIDs).Delete(&model.QuizAttempt{}).Error
}
