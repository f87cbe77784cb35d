package repository

import (
	"context"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"

	"gorm.io/gorm"
)

type OtpRepository struct {
	DB *gorm.DB
}

func NewOtpRepository(db *gorm.DB) *OtpRepository {
	return &OtpRepository{DB: db}
}

func (r *OtpRepository) Create(ctx context.Context, session *model.OtpSession) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

func (r *OtpRepository) FindByID(ctx context.Context, id string) (*model.OtpSession, error) {
	var s model.OtpSession
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, notFound(err, util.ErrInvalidOTP)
	}
	return &s, nil
}

// ConsumeAttempt 在比对验证码之前占用一次校验机会，计数与上限判断在同一条 UPDATE 中完成
func (r *OtpRepository) ConsumeAttempt(ctx context.Context, id string, maxAttempts int) error {
	res := r.DB.WithContext(ctx).Model(&model.OtpSession{}).
		Where("id = ? AND attempts < ?", id, maxAttempts).
		Update("attempts", gorm.Expr("attempts + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrOTPAttemptsExceeded
	}
	return nil
}

// MarkVerified 只有未验证的会话会被更新，并发校验同一验证码时只有一个成功
func (r *OtpRepository) MarkVerified(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&model.OtpSession{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrInvalidOTP
	}
	return nil
}
