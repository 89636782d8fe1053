package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionPolicy holds the commission rate applied to new packages of
// one type. Packages copy the percent at creation time.
type CommissionPolicy struct {
	Versioned

	ID                uuid.UUID       `json:"id"`
	PackageType       PackageType     `json:"package_type"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (p *CommissionPolicy) GetID() string {
	return p.ID.String()
}
