package model

import "time"

// User 答题用户，通过手机号 + OTP 登录
// swagger:model User
type User struct {
	UUIDBase
	PhoneNumber       string     `gorm:"size:32;uniqueIndex;not null" json:"phoneNumber"`
	Name              *string    `gorm:"size:100" json:"name"`
	IsVerified        bool       `gorm:"default:false;not null" json:"isVerified"`
	LastOtpVerifiedAt *time.Time `json:"lastOtpVerifiedAt"`
}

func (User) TableName() string {
	return "users"
}

// HasName reports whether the user already filled in a display name.
func (u *User) HasName() bool {
	return u.Name != nil && *u.Name != ""
}
