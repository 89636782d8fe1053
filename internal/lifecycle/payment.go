package lifecycle

import (
	"strings"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentInput is an admin's request to record a commission payment.
// Amount and AssociateID are optional; when set they must match the package.
type PaymentInput struct {
	Status        models.CommissionStatus
	Amount        *decimal.Decimal
	AssociateID   *uuid.UUID
	TransactionID *string
	ScreenshotURL *string
	PaymentDate   *time.Time
}

// CheckPayment validates a payment against the package, its lead and any
// existing paid record. A paid record always wins so repeated submissions
// fail the same way.
func CheckPayment(pkg *models.Package, lead *models.Lead, paid *models.Commission, in PaymentInput) error {
	if paid != nil {
		return &AlreadyPaidError{PackageID: pkg.ID}
	}
	if !IsPayable(pkg.Status) {
		return invalid("package_id", "commission can only be recorded for Approved or TripComplete packages (is %s)", pkg.Status)
	}
	switch in.Status {
	case models.CommissionStatusPaid:
		if in.TransactionID == nil || strings.TrimSpace(*in.TransactionID) == "" {
			return invalid("transaction_id", "is required when status is Paid")
		}
	case models.CommissionStatusPending:
	default:
		return invalid("status", "unknown commission status %q", in.Status)
	}
	if in.Amount != nil && !in.Amount.Equal(pkg.CommissionAmount) {
		return invalid("amount", "must equal the package commission amount %s", pkg.CommissionAmount.StringFixed(2))
	}
	if in.AssociateID != nil && *in.AssociateID != lead.AssociateID {
		return invalid("associate_id", "does not own the package's lead")
	}
	return nil
}

// ApplyPayment writes the validated input onto a commission record.
func ApplyPayment(c *models.Commission, pkg *models.Package, lead *models.Lead, in PaymentInput, now time.Time) {
	c.PackageID = pkg.ID
	c.LeadID = lead.ID
	c.AssociateID = lead.AssociateID
	c.Amount = pkg.CommissionAmount
	c.Status = in.Status
	if in.ScreenshotURL != nil {
		c.ScreenshotURL = in.ScreenshotURL
	}
	if in.Status == models.CommissionStatusPaid {
		tx := strings.TrimSpace(*in.TransactionID)
		c.TransactionID = &tx
		paidAt := now
		if in.PaymentDate != nil {
			paidAt = *in.PaymentDate
		}
		c.PaymentDate = &paidAt
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}
