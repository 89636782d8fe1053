package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateLeadRequest struct {
	CustomerName     string           `json:"customer_name" validate:"required,max=120"`
	Phone            string           `json:"phone" validate:"required,min=7,max=20"`
	Email            *string          `json:"email,omitempty" validate:"omitempty,email"`
	NumberOfPeople   int              `json:"number_of_people" validate:"required,min=1,max=50"`
	VisitingDate     *time.Time       `json:"visiting_date,omitempty"`
	VisitingLocation *string          `json:"visiting_location,omitempty" validate:"omitempty,max=200"`
	CurrentLocation  *string          `json:"current_location,omitempty" validate:"omitempty,max=200"`
	ClientBudget     *decimal.Decimal `json:"client_budget,omitempty"`
	Remarks          *string          `json:"remarks,omitempty" validate:"omitempty,max=2000"`
	PackageType      *string          `json:"package_type,omitempty" validate:"omitempty,oneof=Domestic International Resort"`
	AttachmentURL    *string          `json:"attachment_url,omitempty" validate:"omitempty,url"`

	// Admins create leads on behalf of an associate.
	AssociateID *uuid.UUID `json:"associate_id,omitempty"`
}

// UpdateLeadRequest edits lead details. Status has its own endpoint and
// AssociateID is admin-only.
type UpdateLeadRequest struct {
	CustomerName     *string          `json:"customer_name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone            *string          `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Email            *string          `json:"email,omitempty" validate:"omitempty,email"`
	NumberOfPeople   *int             `json:"number_of_people,omitempty" validate:"omitempty,min=1,max=50"`
	VisitingDate     *time.Time       `json:"visiting_date,omitempty"`
	VisitingLocation *string          `json:"visiting_location,omitempty" validate:"omitempty,max=200"`
	CurrentLocation  *string          `json:"current_location,omitempty" validate:"omitempty,max=200"`
	ClientBudget     *decimal.Decimal `json:"client_budget,omitempty"`
	Remarks          *string          `json:"remarks,omitempty" validate:"omitempty,max=2000"`
	PackageType      *string          `json:"package_type,omitempty" validate:"omitempty,oneof=Domestic International Resort"`
	AttachmentURL    *string          `json:"attachment_url,omitempty" validate:"omitempty,url"`
	AssociateID      *uuid.UUID       `json:"associate_id,omitempty"`
}

// UpdateLeadStatusRequest carries the raw status so unknown values surface
// as a domain validation error rather than a decode failure.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
