package dtos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePackageRequest struct {
	LeadID      uuid.UUID       `json:"lead_id" validate:"required"`
	PackageType string          `json:"package_type" validate:"required,oneof=Domestic International Resort"`
	BaseAmount  decimal.Decimal `json:"base_amount"`

	// Overrides the active policy rate when set.
	CommissionPercent *decimal.Decimal `json:"commission_percent,omitempty"`
}

type ApprovePackageRequest struct {
	FinalAmount      *decimal.Decimal `json:"final_amount,omitempty"`
	CommissionAmount *decimal.Decimal `json:"commission_amount,omitempty"`
}

type UpdatePackageStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
