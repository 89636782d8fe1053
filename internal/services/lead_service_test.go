package services

import (
	"testing"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestCreateLead_Ownership(t *testing.T) {
	env := newTestEnv(t)
	a, sa := env.activeAssociate(t, "a@example.com")
	b, _ := env.activeAssociate(t, "b@example.com")

	_, err := env.leads.CreateLead(env.ctx, sa, dtos.CreateLeadRequest{
		CustomerName: "X", Phone: "+911234567", NumberOfPeople: 1, AssociateID: &b.ID,
	})
	var ferr *lifecycle.ForbiddenError
	require.ErrorAs(t, err, &ferr)

	_, err = env.leads.CreateLead(env.ctx, env.adminSess, dtos.CreateLeadRequest{
		CustomerName: "X", Phone: "+911234567", NumberOfPeople: 1,
	})
	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = env.leads.CreateLead(env.ctx, env.adminSess, dtos.CreateLeadRequest{
		CustomerName: "X", Phone: "+911234567", NumberOfPeople: 1, AssociateID: &env.admin.ID,
	})
	require.ErrorAs(t, err, &verr)

	lead, err := env.leads.CreateLead(env.ctx, env.adminSess, dtos.CreateLeadRequest{
		CustomerName: "On behalf", Phone: "+911234567", NumberOfPeople: 3, AssociateID: &a.ID,
	})
	require.NoError(t, err)
	require.Equal(t, a.ID, lead.AssociateID)

	for _, n := range []int{0, 51} {
		_, err = env.leads.CreateLead(env.ctx, sa, dtos.CreateLeadRequest{
			CustomerName: "X", Phone: "+911234567", NumberOfPeople: n,
		})
		require.ErrorAs(t, err, &verr, "people=%d", n)
	}
}

func TestLeads_AssociatesSeeOnlyTheirOwn(t *testing.T) {
	env := newTestEnv(t)
	_, sa := env.activeAssociate(t, "a@example.com")
	_, sb := env.activeAssociate(t, "b@example.com")

	mine := env.confirmedLead(t, sa, "Mine")
	env.confirmedLead(t, sb, "Theirs")

	leads, total, err := env.leads.ListLeads(env.ctx, sa, models.LeadFilter{AssociateID: &sb.UserID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, mine.ID, leads[0].ID)

	_, total, err = env.leads.ListLeads(env.ctx, env.adminSess, models.LeadFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total)

	var nf *lifecycle.NotFoundError
	_, err = env.leads.GetLead(env.ctx, sb, mine.ID)
	require.ErrorAs(t, err, &nf)

	var ferr *lifecycle.ForbiddenError
	_, err = env.leads.UpdateLead(env.ctx, sb, mine.ID, dtos.UpdateLeadRequest{Remarks: utils.Ptr("hijack")})
	require.ErrorAs(t, err, &ferr)
	_, err = env.leads.UpdateLeadStatus(env.ctx, sb, mine.ID, "NotInterested")
	require.ErrorAs(t, err, &ferr)
}

func TestUpdateLead_Fields(t *testing.T) {
	env := newTestEnv(t)
	_, sa := env.activeAssociate(t, "a@example.com")
	b, _ := env.activeAssociate(t, "b@example.com")
	lead := env.confirmedLead(t, sa, "Before")

	updated, err := env.leads.UpdateLead(env.ctx, sa, lead.ID, dtos.UpdateLeadRequest{
		CustomerName:   utils.Ptr("  After "),
		NumberOfPeople: utils.Ptr(6),
		PackageType:    utils.Ptr("Resort"),
		Remarks:        utils.Ptr("   "),
	})
	require.NoError(t, err)
	require.Equal(t, "After", updated.CustomerName)
	require.Equal(t, 6, updated.NumberOfPeople)
	require.Equal(t, models.PackageTypeResort, *updated.PackageType)
	require.Nil(t, updated.Remarks)
	require.Equal(t, models.LeadStatusConfirmed, updated.Status)

	var ferr *lifecycle.ForbiddenError
	_, err = env.leads.UpdateLead(env.ctx, sa, lead.ID, dtos.UpdateLeadRequest{AssociateID: &b.ID})
	require.ErrorAs(t, err, &ferr)

	moved, err := env.leads.UpdateLead(env.ctx, env.adminSess, lead.ID, dtos.UpdateLeadRequest{AssociateID: &b.ID})
	require.NoError(t, err)
	require.Equal(t, b.ID, moved.AssociateID)
}

func TestUpdateLeadStatus_SameStatusIsNoop(t *testing.T) {
	env := newTestEnv(t)
	_, sa := env.activeAssociate(t, "a@example.com")
	lead := env.confirmedLead(t, sa, "Same")
	before := len(env.publisher.Types())

	got, err := env.leads.UpdateLeadStatus(env.ctx, sa, lead.ID, "Confirmed")
	require.NoError(t, err)
	require.Equal(t, lead.RowVersion, got.RowVersion)
	require.Len(t, env.publisher.Types(), before)

	_, err = env.leads.UpdateLeadStatus(env.ctx, sa, lead.ID, "Booked")
	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateLeadStatus_AdminOverride(t *testing.T) {
	env := newTestEnv(t)
	_, sa := env.activeAssociate(t, "a@example.com")
	lead := env.confirmedLead(t, sa, "Override")

	var terr *lifecycle.InvalidTransitionError
	_, err := env.leads.UpdateLeadStatus(env.ctx, sa, lead.ID, "TripCompleted")
	require.ErrorAs(t, err, &terr)

	got, err := env.leads.UpdateLeadStatus(env.ctx, env.adminSess, lead.ID, "TripCompleted")
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusTripCompleted, got.Status)

	got, err = env.leads.UpdateLeadStatus(env.ctx, env.adminSess, lead.ID, "NotAnswer")
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusNotAnswer, got.Status)
}

func TestDeleteLead(t *testing.T) {
	env := newTestEnv(t)
	_, sa := env.activeAssociate(t, "a@example.com")
	free := env.confirmedLead(t, sa, "Free")
	packaged := env.confirmedLead(t, sa, "Packaged")
	_, err := env.packages.CreatePackage(env.ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: packaged.ID, PackageType: "Domestic", BaseAmount: dec("100"),
	})
	require.NoError(t, err)

	var ferr *lifecycle.ForbiddenError
	require.ErrorAs(t, env.leads.DeleteLead(env.ctx, sa, free.ID), &ferr)

	var verr *lifecycle.ValidationError
	require.ErrorAs(t, env.leads.DeleteLead(env.ctx, env.adminSess, packaged.ID), &verr)

	require.NoError(t, env.leads.DeleteLead(env.ctx, env.adminSess, free.ID))

	var nf *lifecycle.NotFoundError
	require.ErrorAs(t, env.leads.DeleteLead(env.ctx, env.adminSess, free.ID), &nf)
}

func TestNotifications_InboxScoping(t *testing.T) {
	env := newTestEnv(t)
	a, sa := env.activeAssociate(t, "a@example.com")
	_, sb := env.activeAssociate(t, "b@example.com")
	env.confirmedLead(t, sa, "Inbox")

	// Admins got: two registrations, a new lead and a confirmation.
	adminCount, err := env.notifications.UnreadCount(env.ctx, env.adminSess)
	require.NoError(t, err)
	require.Equal(t, 4, adminCount)

	mine, err := env.notifications.List(env.ctx, sa, true, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, models.NotificationAssociateApproved, mine[0].Type)
	require.Equal(t, a.ID, *mine[0].RecipientID)

	var nf *lifecycle.NotFoundError
	require.ErrorAs(t, env.notifications.MarkRead(env.ctx, sb, mine[0].ID), &nf)
	require.NoError(t, env.notifications.MarkRead(env.ctx, sa, mine[0].ID))

	unread, err := env.notifications.UnreadCount(env.ctx, sa)
	require.NoError(t, err)
	require.Zero(t, unread)

	marked, err := env.notifications.MarkAllRead(env.ctx, env.adminSess)
	require.NoError(t, err)
	require.EqualValues(t, 4, marked)
}

func TestDashboard_Stats(t *testing.T) {
	env := newTestEnv(t)
	_, sa := env.activeAssociate(t, "a@example.com")
	_, err := env.auth.Register(env.ctx, dtos.RegisterRequest{
		Name: "Waiting", Email: "wait@example.com", Password: "Associate@123", Phone: "+911234567",
	})
	require.NoError(t, err)
	env.confirmedLead(t, sa, "One")

	stats, err := env.dashboard.Stats(env.ctx, env.adminSess)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalLeads)
	require.Equal(t, 1, stats.LeadsByStatus[models.LeadStatusConfirmed])
	require.Zero(t, stats.LeadsByStatus[models.LeadStatusNotAnswer])
	require.Len(t, stats.PackagesByStatus, len(models.AllPackageStatuses))
	require.NotNil(t, stats.PendingAssociates)
	require.Equal(t, 1, *stats.PendingAssociates)

	mine, err := env.dashboard.Stats(env.ctx, sa)
	require.NoError(t, err)
	require.Equal(t, 1, mine.TotalLeads)
	require.Nil(t, mine.PendingAssociates)
}

func TestAssociates_SelfServiceAndAdminViews(t *testing.T) {
	env := newTestEnv(t)
	a, sa := env.activeAssociate(t, "a@example.com")
	_, sb := env.activeAssociate(t, "b@example.com")

	var nf *lifecycle.NotFoundError
	_, err := env.associates.GetAssociate(env.ctx, sb, a.ID)
	require.ErrorAs(t, err, &nf)

	self, err := env.associates.GetAssociate(env.ctx, sa, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Email, self.Email)

	var ferr *lifecycle.ForbiddenError
	_, _, err = env.associates.ListAssociates(env.ctx, sa, models.UserFilter{})
	require.ErrorAs(t, err, &ferr)

	updated, err := env.associates.UpdateProfile(env.ctx, sa, dtos.UpdateProfileRequest{
		Address:     utils.Ptr(" 1 Beach Rd "),
		BankDetails: &models.BankDetails{UPIID: "a@upi"},
	})
	require.NoError(t, err)
	require.Equal(t, "1 Beach Rd", updated.Address)
	require.Equal(t, "a@upi", updated.BankDetails.UPIID)

	gone, err := env.associates.DeactivateSelf(env.ctx, sa)
	require.NoError(t, err)
	require.False(t, gone.IsActive)

	_, err = env.associates.DeactivateSelf(env.ctx, env.adminSess)
	require.ErrorAs(t, err, &ferr)

	active := models.AccountStateActive
	list, total, err := env.associates.ListAssociates(env.ctx, env.adminSess, models.UserFilter{State: &active})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, sb.UserID, list[0].ID)
}
