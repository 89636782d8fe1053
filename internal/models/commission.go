package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commission is a payment record for an associate's package commission.
type Commission struct {
	Versioned

	ID            uuid.UUID        `json:"id"`
	AssociateID   uuid.UUID        `json:"associate_id"`
	PackageID     uuid.UUID        `json:"package_id"`
	LeadID        uuid.UUID        `json:"lead_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Status        CommissionStatus `json:"status"`
	TransactionID *string          `json:"transaction_id,omitempty"`
	ScreenshotURL *string          `json:"screenshot_url,omitempty"`
	PaymentDate   *time.Time       `json:"payment_date,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (c *Commission) GetID() string {
	return c.ID.String()
}

type CommissionFilter struct {
	AssociateID *uuid.UUID
	Status      *CommissionStatus
	Page        int
	PageSize    int
}

// CommissionSummary aggregates an associate's commissions. Paid sums the
// Paid commission records, Pending the Approved or TripComplete packages
// still awaiting payment, and Earned is both together.
type CommissionSummary struct {
	Earned      decimal.Decimal `json:"earned"`
	Paid        decimal.Decimal `json:"paid"`
	Pending     decimal.Decimal `json:"pending"`
	PaidCount   int             `json:"paid_count"`
	UnpaidCount int             `json:"unpaid_count"`
}
