package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message. Admin notifications are shared by all
// admins (RecipientID nil); associate notifications target one user.
type Notification struct {
	ID            uuid.UUID        `json:"id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       *string          `json:"message,omitempty"`
	IsRead        bool             `json:"is_read"`
	RecipientRole Role             `json:"recipient_role"`
	RecipientID   *uuid.UUID       `json:"recipient_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// VisibleTo reports whether the notification belongs to the session's inbox.
func (n *Notification) VisibleTo(s Session) bool {
	if n.RecipientRole != s.Role {
		return false
	}
	if n.RecipientID == nil {
		return s.Role == RoleAdmin
	}
	return *n.RecipientID == s.UserID
}
