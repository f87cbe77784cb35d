package repository

import (
	"context"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"

	"gorm.io/gorm"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return r.DB.WithContext(ctx).Create(admin).Error
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Admin{}).Count(&count).Error
	return count, err
}

func (r *AdminRepository) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.DB.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, notFound(err, util.ErrAdminNotFound)
	}
	return &admin, nil
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, notFound(err, util.ErrAdminNotFound)
	}
	return &admin, nil
}

func (r *AdminRepository) List(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	err := r.DB.WithContext(ctx).Order("created_at asc").Find(&admins).Error
	return admins, err
}

func (r *AdminRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.Admin{}, "id = ?", id).Error
}
