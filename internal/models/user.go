package models

import (
	"time"

	"github.com/google/uuid"
)

// BankDetails is where an associate's commission is paid to.
type BankDetails struct {
	AccountNumber string `json:"account_number,omitempty" yaml:"account_number"`
	IFSCCode      string `json:"ifsc_code,omitempty" yaml:"ifsc_code"`
	UPIID         string `json:"upi_id,omitempty" yaml:"upi_id"`
}

func (b BankDetails) IsZero() bool {
	return b.AccountNumber == "" && b.IFSCCode == "" && b.UPIID == ""
}

// User is either an admin or a business associate.
type User struct {
	Versioned

	ID                     uuid.UUID    `json:"id"`
	Name                   string       `json:"name"`
	Email                  string       `json:"email"`
	UniqueID               string       `json:"unique_id"`
	Role                   Role         `json:"role"`
	IsActive               bool         `json:"is_active"`
	RequiresPasswordChange bool         `json:"requires_password_change"`
	Phone                  string       `json:"phone,omitempty"`
	Address                string       `json:"address,omitempty"`
	BankDetails            *BankDetails `json:"bank_details,omitempty"`
	PasswordHash           string       `json:"-"` // Never serialize to JSON

	// ApprovedAt is set the first time the user becomes active and never
	// cleared. A nil value means the account is still pending approval.
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (u *User) GetID() string {
	return u.ID.String()
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// EverApproved reports whether the user has passed through Active.
func (u *User) EverApproved() bool { return u.ApprovedAt != nil }

// Session returns the actor value handed to the service layer.
func (u *User) Session() Session {
	return Session{
		UserID:                 u.ID,
		Role:                   u.Role,
		RequiresPasswordChange: u.RequiresPasswordChange,
	}
}

// AccountState is the derived approval state used to filter associates.
type AccountState string

const (
	AccountStatePending  AccountState = "pending"
	AccountStateActive   AccountState = "active"
	AccountStateInactive AccountState = "inactive"
)

// State derives the account state from IsActive and ApprovedAt.
func (u *User) State() AccountState {
	switch {
	case u.IsActive:
		return AccountStateActive
	case u.ApprovedAt == nil:
		return AccountStatePending
	default:
		return AccountStateInactive
	}
}

type UserFilter struct {
	Role     *Role
	State    *AccountState
	Search   string
	Page     int
	PageSize int
}
