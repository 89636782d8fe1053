package lifecycle

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError reports a status change the state machine forbids.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s cannot move from %s to %s", e.Entity, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// AlreadyPaidError is returned when a package's commission was already paid.
type AlreadyPaidError struct {
	PackageID uuid.UUID
}

func (e *AlreadyPaidError) Error() string {
	return fmt.Sprintf("commission for package %s has already been paid", e.PackageID)
}

// PendingApprovalError is returned for actions that need an associate who
// has been approved at least once.
type PendingApprovalError struct {
	UserID uuid.UUID
}

func (e *PendingApprovalError) Error() string {
	return "account is pending admin approval"
}

// AuthenticationError deliberately carries no detail about which part of
// the credentials was wrong.
type AuthenticationError struct{}

func (e *AuthenticationError) Error() string {
	return "invalid credentials"
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NotFound(entity string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

// ForbiddenError reports an actor acting outside its authority.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}
