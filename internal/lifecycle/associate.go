package lifecycle

import (
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
)

// ApproveAssociate activates an associate. firstTime is true only for the
// first ever activation, which is when the welcome side effects fire.
func ApproveAssociate(u *models.User, now time.Time) (firstTime bool, err error) {
	if u.Role != models.RoleAssociate {
		return false, invalid("user_id", "only associates can be approved")
	}
	firstTime = u.ApprovedAt == nil
	if firstTime {
		u.ApprovedAt = &now
	}
	u.IsActive = true
	u.UpdatedAt = now
	return firstTime, nil
}

// ToggleAssociate flips an associate between Active and Inactive. Accounts
// that were never approved must go through ApproveAssociate first.
func ToggleAssociate(u *models.User, active bool, now time.Time) error {
	if u.Role != models.RoleAssociate {
		return invalid("user_id", "only associates can be toggled")
	}
	if u.ApprovedAt == nil {
		return &PendingApprovalError{UserID: u.ID}
	}
	u.IsActive = active
	u.UpdatedAt = now
	return nil
}

// DeactivateSelf is the associate's own, one-way deactivation.
func DeactivateSelf(u *models.User, now time.Time) error {
	if u.Role != models.RoleAssociate {
		return &ForbiddenError{Message: "only associates can deactivate their own account"}
	}
	u.IsActive = false
	u.UpdatedAt = now
	return nil
}

// CheckLogin decides whether a looked-up user may sign in. user is nil when
// no account matched the identifier.
func CheckLogin(u *models.User, passwordOK bool) error {
	if u == nil || !passwordOK {
		return &AuthenticationError{}
	}
	if u.IsActive {
		return nil
	}
	if u.ApprovedAt == nil {
		return &PendingApprovalError{UserID: u.ID}
	}
	return &ForbiddenError{Message: "account is deactivated"}
}
