package models

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies the actor behind a request. It is passed explicitly
// to the authorization gate and to every service call.
type Session struct {
	UserID                 uuid.UUID `json:"user_id"`
	Role                   Role      `json:"role"`
	RequiresPasswordChange bool      `json:"requires_password_change"`

	// Token bookkeeping, empty for sessions built outside HTTP.
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

func (s Session) IsAdmin() bool     { return s.Role == RoleAdmin }
func (s Session) IsAssociate() bool { return s.Role == RoleAssociate }

// Home is the landing route for the session's role.
func (s Session) Home() string {
	if s.Role == RoleAdmin {
		return "/admin/dashboard"
	}
	return "/dashboard"
}
