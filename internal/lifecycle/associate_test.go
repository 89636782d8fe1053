package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func pendingAssociate() *models.User {
	return &models.User{ID: uuid.New(), Role: models.RoleAssociate}
}

func TestToggleRequiresPriorApproval(t *testing.T) {
	u := pendingAssociate()

	var paErr *PendingApprovalError
	require.True(t, errors.As(ToggleAssociate(u, true, time.Now()), &paErr))
	require.False(t, u.IsActive)

	first, err := ApproveAssociate(u, time.Now())
	require.NoError(t, err)
	require.True(t, first)
	require.True(t, u.IsActive)

	require.NoError(t, ToggleAssociate(u, false, time.Now()))
	require.False(t, u.IsActive)
	require.NoError(t, ToggleAssociate(u, true, time.Now()))
	require.True(t, u.IsActive)
}

func TestApproveAssociate_WelcomeOnlyOnce(t *testing.T) {
	u := pendingAssociate()
	first, err := ApproveAssociate(u, time.Now())
	require.NoError(t, err)
	require.True(t, first)
	approvedAt := *u.ApprovedAt

	require.NoError(t, ToggleAssociate(u, false, time.Now()))
	again, err := ApproveAssociate(u, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.False(t, again)
	require.True(t, u.IsActive)
	require.Equal(t, approvedAt, *u.ApprovedAt)
}

func TestApproveAssociate_RejectsAdmins(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	_, err := ApproveAssociate(admin, time.Now())
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.True(t, errors.As(ToggleAssociate(admin, false, time.Now()), &vErr))
}

func TestCheckLogin(t *testing.T) {
	var authErr *AuthenticationError
	require.True(t, errors.As(CheckLogin(nil, false), &authErr))

	u := pendingAssociate()
	require.True(t, errors.As(CheckLogin(u, false), &authErr), "bad password must not reveal pending state")

	var paErr *PendingApprovalError
	require.True(t, errors.As(CheckLogin(u, true), &paErr))

	_, err := ApproveAssociate(u, time.Now())
	require.NoError(t, err)
	require.NoError(t, CheckLogin(u, true))

	require.NoError(t, DeactivateSelf(u, time.Now()))
	var fErr *ForbiddenError
	require.True(t, errors.As(CheckLogin(u, true), &fErr))
}
