package lifecycle

import (
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/shopspring/decimal"
)

var packageTransitions = map[models.PackageStatus][]models.PackageStatus{
	models.PackageStatusApproved: {
		models.PackageStatusTripComplete,
		models.PackageStatusCancelled,
	},
}

// CheckPackageSource verifies a lead can have a package built from it.
func CheckPackageSource(lead *models.Lead, hasPackage bool) error {
	if lead.Status != models.LeadStatusConfirmed {
		return invalid("lead_id", "lead must be Confirmed to create a package (is %s)", lead.Status)
	}
	if hasPackage {
		return invalid("lead_id", "lead already has a package")
	}
	return nil
}

// NewPackage builds a Draft package priced at the given rate.
func NewPackage(lead *models.Lead, pkgType models.PackageType, base, rate decimal.Decimal, now time.Time) (*models.Package, error) {
	b, err := ComputeCommission(base, rate)
	if err != nil {
		return nil, err
	}
	return &models.Package{
		LeadID:            lead.ID,
		PackageType:       pkgType,
		BaseAmount:        base,
		CommissionPercent: rate,
		CommissionAmount:  b.CommissionAmount,
		FinalAmount:       b.FinalAmount,
		Status:            models.PackageStatusDraft,
		AdminApproved:     false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ApprovalOverrides are the optional amounts an admin may set on approval.
type ApprovalOverrides struct {
	FinalAmount      *decimal.Decimal
	CommissionAmount *decimal.Decimal
}

// ApprovePackage moves a Draft package to Approved, applying overrides.
// When only one amount is given the other is derived from the base so that
// final = base + commission keeps holding.
func ApprovePackage(p *models.Package, ov ApprovalOverrides, now time.Time) error {
	if p.Status != models.PackageStatusDraft {
		return &InvalidTransitionError{
			Entity: "package",
			From:   string(p.Status),
			To:     string(models.PackageStatusApproved),
			Reason: "only Draft packages can be approved",
		}
	}

	commission := p.CommissionAmount
	final := p.FinalAmount

	switch {
	case ov.FinalAmount != nil && ov.CommissionAmount != nil:
		final = Round2(*ov.FinalAmount)
		commission = Round2(*ov.CommissionAmount)
		if !final.Equal(p.BaseAmount.Add(commission)) {
			return invalid("final_amount", "must equal base_amount + commission_amount")
		}
	case ov.CommissionAmount != nil:
		commission = Round2(*ov.CommissionAmount)
		final = p.BaseAmount.Add(commission)
	case ov.FinalAmount != nil:
		final = Round2(*ov.FinalAmount)
		commission = final.Sub(p.BaseAmount)
	}

	if commission.LessThan(zero) {
		return invalid("commission_amount", "must not be negative")
	}
	if final.LessThan(p.BaseAmount) {
		return invalid("final_amount", "must be at least the base amount")
	}

	p.CommissionAmount = commission
	p.FinalAmount = final
	p.AdminApproved = true
	p.Status = models.PackageStatusApproved
	p.ApprovedAt = &now
	p.UpdatedAt = now
	return nil
}

// CheckPackageTransition validates a post-approval status change. Approval
// itself goes through ApprovePackage.
func CheckPackageTransition(p *models.Package, to models.PackageStatus) error {
	for _, allowed := range packageTransitions[p.Status] {
		if allowed == to {
			if !p.AdminApproved {
				break
			}
			return nil
		}
	}
	reason := ""
	switch {
	case p.Status == models.PackageStatusDraft:
		reason = "package must be approved first"
	case IsTerminalPackage(p.Status):
		reason = "package is in a terminal state"
	}
	return &InvalidTransitionError{
		Entity: "package",
		From:   string(p.Status),
		To:     string(to),
		Reason: reason,
	}
}

func IsTerminalPackage(st models.PackageStatus) bool {
	return st == models.PackageStatusTripComplete || st == models.PackageStatusCancelled
}

// IsPayable reports whether a package's commission may be recorded.
func IsPayable(st models.PackageStatus) bool {
	return st == models.PackageStatusApproved || st == models.PackageStatusTripComplete
}
