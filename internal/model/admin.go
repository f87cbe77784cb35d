package model

// swagger:model Admin
type Admin struct {
	UUIDBase
	Username     string  `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password     string  `gorm:"size:100;not null" json:"-"`
	IsSuperAdmin bool    `gorm:"default:false;not null" json:"isSuperAdmin"`
	CreatedByID  *string `gorm:"type:varchar(36)" json:"createdById"`
}

func (Admin) TableName() string {
	return "admins"
}
