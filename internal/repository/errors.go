package repository

import (
	"errors"

	"gorm.io/gorm"
)

// notFound 将 gorm.ErrRecordNotFound 转换为业务错误
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
