package users

import (
	"strings"
	"time"

	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	"github.com/google/uuid"
)

// AdminUserDTO is the transport shape that omits the password hash.
type AdminUserDTO struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	DisplayName string        `json:"display_name"`
	AppRole     enums.AppRole `json:"app_role"`
	IsActive    bool          `json:"is_active"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CreateAdminDTO holds what the repo needs to persist a new operator.
type CreateAdminDTO struct {
	Email        string
	PasswordHash string
	DisplayName  string
	AppRole      enums.AppRole
	IsActive     *bool
}

func FromModel(u *models.AdminUser) *AdminUserDTO {
	if u == nil {
		return nil
	}
	return &AdminUserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AppRole:     u.AppRole,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func (d CreateAdminDTO) ToModel() *models.AdminUser {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	role := d.AppRole
	if role == "" {
		role = enums.AppRoleStaff
	}
	return &models.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		PasswordHash: d.PasswordHash,
		DisplayName:  strings.TrimSpace(d.DisplayName),
		AppRole:      role,
		IsActive:     active,
	}
}
