package auth

import (
	"github.com/arduinodayph/adph-merch/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.AppRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to operators.
type AccessTokenClaims struct {
	UserID uuid.UUID     `json:"user_id"`
	Email  string        `json:"email,omitempty"`
	Role   enums.AppRole `json:"app_role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token carries the admin role claim.
func (c *AccessTokenClaims) IsAdmin() bool {
	return c != nil && c.Role == enums.AppRoleAdmin
}
