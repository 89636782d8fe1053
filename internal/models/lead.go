package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinPeoplePerLead = 1
	MaxPeoplePerLead = 50
)

// Lead is a prospective customer submitted by an associate.
type Lead struct {
	Versioned

	ID               uuid.UUID        `json:"id"`
	CustomerName     string           `json:"customer_name"`
	Phone            string           `json:"phone"`
	Email            *string          `json:"email,omitempty"`
	NumberOfPeople   int              `json:"number_of_people"`
	VisitingDate     *time.Time       `json:"visiting_date,omitempty"`
	VisitingLocation *string          `json:"visiting_location,omitempty"`
	CurrentLocation  *string          `json:"current_location,omitempty"`
	ClientBudget     *decimal.Decimal `json:"client_budget,omitempty"`
	AssociateID      uuid.UUID        `json:"associate_id"`
	Status           LeadStatus       `json:"status"`
	Remarks          *string          `json:"remarks,omitempty"`
	PackageType      *PackageType     `json:"package_type,omitempty"`
	AttachmentURL    *string          `json:"attachment_url,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (l *Lead) GetID() string {
	return l.ID.String()
}

// LeadFilter narrows lead listings. Zero values mean "no filter".
type LeadFilter struct {
	AssociateID *uuid.UUID
	Status      *LeadStatus
	Search      string
	Page        int
	PageSize    int
}
