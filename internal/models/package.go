package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Package is the priced trip built by an admin from a confirmed lead.
type Package struct {
	Versioned

	ID                uuid.UUID       `json:"id"`
	LeadID            uuid.UUID       `json:"lead_id"`
	PackageType       PackageType     `json:"package_type"`
	BaseAmount        decimal.Decimal `json:"base_amount"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
	FinalAmount       decimal.Decimal `json:"final_amount"`
	Status            PackageStatus   `json:"status"`
	AdminApproved     bool            `json:"admin_approved"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (p *Package) GetID() string {
	return p.ID.String()
}

// PackageFilter narrows package listings. AssociateID scopes to packages
// built from that associate's leads.
type PackageFilter struct {
	AssociateID *uuid.UUID
	Status      *PackageStatus
	Page        int
	PageSize    int
}
