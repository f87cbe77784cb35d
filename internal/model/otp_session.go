package model

import "time"

type OtpSession struct {
	UUIDBase
	PhoneNumber string    `gorm:"size:32;index;not null" json:"phoneNumber"`
	OTP         string    `gorm:"column:otp;size:10;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expiresAt"`
	Verified    bool      `gorm:"default:false;not null" json:"verified"`
	Attempts    int       `gorm:"default:0;not null" json:"attempts"`
}

func (OtpSession) TableName() string {
	return "otp_sessions"
}

func (s *OtpSession) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
