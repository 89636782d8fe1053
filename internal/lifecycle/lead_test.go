package lifecycle

import (
	"errors"
	"testing"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCheckLeadTransition_Associate(t *testing.T) {
	allowed := map[models.LeadStatus][]models.LeadStatus{
		models.LeadStatusNotAnswer: {models.LeadStatusNotInterested, models.LeadStatusNotDecide, models.LeadStatusConfirmed},
		models.LeadStatusNotDecide: {models.LeadStatusNotAnswer, models.LeadStatusNotInterested, models.LeadStatusConfirmed},
	}

	for _, from := range models.AllLeadStatuses {
		for _, to := range models.AllLeadStatuses {
			err := CheckLeadTransition(models.RoleAssociate, from, to)
			if from == to {
				require.NoError(t, err, "%s -> %s should be a no-op", from, to)
				continue
			}
			ok := false
			for _, a := range allowed[from] {
				if a == to {
					ok = true
				}
			}
			if ok {
				require.NoError(t, err, "%s -> %s", from, to)
			} else {
				var itErr *InvalidTransitionError
				require.True(t, errors.As(err, &itErr), "%s -> %s should be rejected, got %v", from, to, err)
			}
		}
	}
}

func TestCheckLeadTransition_TerminalForAssociateButNotAdmin(t *testing.T) {
	terminal := []models.LeadStatus{
		models.LeadStatusNotInterested,
		models.LeadStatusTripCompleted,
		models.LeadStatusTripCancelled,
	}
	for _, from := range terminal {
		for _, to := range models.AllLeadStatuses {
			if to == from {
				continue
			}
			require.Error(t, CheckLeadTransition(models.RoleAssociate, from, to), "%s -> %s", from, to)
			require.NoError(t, CheckLeadTransition(models.RoleAdmin, from, to), "%s -> %s", from, to)
		}
	}
}

func TestParseLeadStatus(t *testing.T) {
	st, err := ParseLeadStatus("Confirmed")
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusConfirmed, st)

	for _, bad := range []string{"", "confirmed", "Done", "Trip Completed"} {
		_, err := ParseLeadStatus(bad)
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), "input %q", bad)
	}
}

func TestLeadStatusForPackage(t *testing.T) {
	st, ok := LeadStatusForPackage(models.PackageStatusTripComplete)
	require.True(t, ok)
	require.Equal(t, models.LeadStatusTripCompleted, st)

	st, ok = LeadStatusForPackage(models.PackageStatusCancelled)
	require.True(t, ok)
	require.Equal(t, models.LeadStatusTripCancelled, st)

	_, ok = LeadStatusForPackage(models.PackageStatusApproved)
	require.False(t, ok)
}

func TestValidatePeople(t *testing.T) {
	require.NoError(t, ValidatePeople(1))
	require.NoError(t, ValidatePeople(50))
	require.Error(t, ValidatePeople(0))
	require.Error(t, ValidatePeople(51))
}
