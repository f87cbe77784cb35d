package repository

import (
	"context"
	"encoding/json"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*model.Payment, error) {
	var p model.Payment
	if err := r.DB.WithContext(ctx).Where("reference = ?", reference).First(&p).Error; err != nil {
		return nil, notFound(err, util.ErrPaymentNotFound)
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, reference, status string, response json.RawMessage) error {
	return r.DB.WithContext(ctx).Model(&model.Payment{}).
		Where("reference = ?", reference).
		Updates(map[string]interface{}{
			"status":            status,
			"paystack_response": response,
		}).Error
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]model.Payment, error) {
	var ps []model.Payment
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&ps).Error
	return ps, err
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]model.Payment, error) {
	var ps []model.Payment
	err := r.DB.WithContext(ctx).Order("created_at desc").Find(&ps).Error
	return ps, err
}

func (r *PaymentRepository) HasSuccessfulPayment(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Payment{}).
		Where("user_id = ? AND status = ?", userID, model.PaymentSuccess).
		Count(&count).Error
	return count > 0, err
}

type PaymentSettingsRepository struct {
	DB *gorm.DB
}

func NewPaymentSettingsRepository(db *gorm.DB) *PaymentSettingsRepository {
	return &PaymentSettingsRepository{DB: db}
}

// Get 返回唯一的一条配置，不存在时返回 nil
func (r *PaymentSettingsRepository) Get(ctx context.Context) (*model.PaymentSettings, error) {
	var settings []model.PaymentSettings
	if err := r.DB.WithContext(ctx).Limit(1).Find(&settings).Error; err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, nil
	}
	return &settings[0], nil
}

func (r *PaymentSettingsRepository) Save(ctx context.Context, s *model.PaymentSettings) error {
	return r.DB.WithContext(ctx).Save(s).Error
}
