package models

import (
	"time"

	"github.com/arduinodayph/adph-merch/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUser is an operator allowed to sign in to the order dashboard.
type AdminUser struct {
	ID           uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Email        string        `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string        `gorm:"column:password_hash;not null"`
	DisplayName  string        `gorm:"column:display_name;not null;default:''"`
	AppRole      enums.AppRole `gorm:"column:app_role;not null;default:'staff'"`
	IsActive     bool          `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time    `gorm:"column:last_login_at"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (AdminUser) TableName() string { return "admin_users" }

func (u *AdminUser) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
