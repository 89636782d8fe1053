package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func draftPackage(t *testing.T, base, rate string) *models.Package {
	t.Helper()
	lead := &models.Lead{ID: uuid.New(), Status: models.LeadStatusConfirmed}
	p, err := NewPackage(lead, models.PackageTypeInternational, dec(base), dec(rate), time.Now())
	require.NoError(t, err)
	p.ID = uuid.New()
	return p
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCheckPackageSource(t *testing.T) {
	for _, st := range models.AllLeadStatuses {
		lead := &models.Lead{Status: st}
		err := CheckPackageSource(lead, false)
		if st == models.LeadStatusConfirmed {
			require.NoError(t, err)
		} else {
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "status %s", st)
		}
	}

	var vErr *ValidationError
	err := CheckPackageSource(&models.Lead{Status: models.LeadStatusConfirmed}, true)
	require.True(t, errors.As(err, &vErr))
}

func TestNewPackage_International(t *testing.T) {
	p := draftPackage(t, "10000", "5")
	require.Equal(t, models.PackageStatusDraft, p.Status)
	require.False(t, p.AdminApproved)
	require.Equal(t, "500.00", p.CommissionAmount.StringFixed(2))
	require.Equal(t, "10500.00", p.FinalAmount.StringFixed(2))
}

func TestApprovePackage_Overrides(t *testing.T) {
	t.Run("no overrides keeps computed amounts", func(t *testing.T) {
		p := draftPackage(t, "10000", "5")
		require.NoError(t, ApprovePackage(p, ApprovalOverrides{}, time.Now()))
		require.Equal(t, models.PackageStatusApproved, p.Status)
		require.True(t, p.AdminApproved)
		require.NotNil(t, p.ApprovedAt)
		require.True(t, dec("500").Equal(p.CommissionAmount))
	})

	t.Run("commission override derives final", func(t *testing.T) {
		p := draftPackage(t, "10000", "5")
		require.NoError(t, ApprovePackage(p, ApprovalOverrides{CommissionAmount: decPtr("750")}, time.Now()))
		require.True(t, dec("10750").Equal(p.FinalAmount))
	})

	t.Run("final override derives commission", func(t *testing.T) {
		p := draftPackage(t, "10000", "5")
		require.NoError(t, ApprovePackage(p, ApprovalOverrides{FinalAmount: decPtr("10300")}, time.Now()))
		require.True(t, dec("300").Equal(p.CommissionAmount))
	})

	t.Run("consistent pair accepted", func(t *testing.T) {
		p := draftPackage(t, "10000", "5")
		require.NoError(t, ApprovePackage(p, ApprovalOverrides{FinalAmount: decPtr("10400"), CommissionAmount: decPtr("400")}, time.Now()))
	})

	bad := []struct {
		name string
		ov   ApprovalOverrides
	}{
		{"final below base", ApprovalOverrides{FinalAmount: decPtr("9999")}},
		{"negative commission", ApprovalOverrides{CommissionAmount: decPtr("-1")}},
		{"inconsistent pair", ApprovalOverrides{FinalAmount: decPtr("10400"), CommissionAmount: decPtr("500")}},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			p := draftPackage(t, "10000", "5")
			err := ApprovePackage(p, tc.ov, time.Now())
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			require.Equal(t, models.PackageStatusDraft, p.Status)
			require.False(t, p.AdminApproved)
		})
	}
}

func TestApprovePackage_OnlyFromDraft(t *testing.T) {
	p := draftPackage(t, "10000", "5")
	require.NoError(t, ApprovePackage(p, ApprovalOverrides{}, time.Now()))

	err := ApprovePackage(p, ApprovalOverrides{}, time.Now())
	var itErr *InvalidTransitionError
	require.True(t, errors.As(err, &itErr))
}

func TestCheckPackageTransition(t *testing.T) {
	draft := draftPackage(t, "1000", "3")
	for _, to := range []models.PackageStatus{models.PackageStatusTripComplete, models.PackageStatusCancelled} {
		var itErr *InvalidTransitionError
		require.True(t, errors.As(CheckPackageTransition(draft, to), &itErr), "Draft -> %s", to)
	}

	approved := draftPackage(t, "1000", "3")
	require.NoError(t, ApprovePackage(approved, ApprovalOverrides{}, time.Now()))
	require.NoError(t, CheckPackageTransition(approved, models.PackageStatusTripComplete))
	require.NoError(t, CheckPackageTransition(approved, models.PackageStatusCancelled))
	require.Error(t, CheckPackageTransition(approved, models.PackageStatusDraft))

	for _, terminal := range []models.PackageStatus{models.PackageStatusTripComplete, models.PackageStatusCancelled} {
		p := *approved
		p.Status = terminal
		for _, to := range models.AllPackageStatuses {
			var itErr *InvalidTransitionError
			require.True(t, errors.As(CheckPackageTransition(&p, to), &itErr), "%s -> %s", terminal, to)
		}
	}
}
