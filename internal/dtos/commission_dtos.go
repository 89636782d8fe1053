package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest targets a package directly or through its lead.
type RecordPaymentRequest struct {
	PackageID     *uuid.UUID       `json:"package_id,omitempty" validate:"required_without=LeadID"`
	LeadID        *uuid.UUID       `json:"lead_id,omitempty" validate:"required_without=PackageID"`
	AssociateID   *uuid.UUID       `json:"associate_id,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Status        string           `json:"status,omitempty" validate:"omitempty,oneof=Pending Paid"`
	TransactionID *string          `json:"transaction_id,omitempty" validate:"omitempty,max=120"`
	ScreenshotURL *string          `json:"screenshot_url,omitempty" validate:"omitempty,url"`
	PaymentDate   *time.Time       `json:"payment_date,omitempty"`
}

type UpsertPolicyRequest struct {
	PackageType       string          `json:"package_type" validate:"required,oneof=Domestic International Resort"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	IsActive          *bool           `json:"is_active,omitempty"`
}

type TogglePolicyRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
