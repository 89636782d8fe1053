package services

import (
	"testing"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func countType(types []models.NotificationType, want models.NotificationType) int {
	n := 0
	for _, t := range types {
		if t == want {
			n++
		}
	}
	return n
}

func TestLeadToPaidCommission(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.ctx

	// Registration leaves the account pending.
	u, err := env.auth.Register(ctx, dtos.RegisterRequest{
		Name:     "Riya Sharma",
		Email:    "Riya@Example.com",
		Password: "Associate@123",
		Phone:    "+919800000001",
	})
	require.NoError(t, err)
	require.Equal(t, "BA-001", u.UniqueID)
	require.Equal(t, "riya@example.com", u.Email)
	require.False(t, u.IsActive)

	_, err = env.auth.Login(ctx, "riya@example.com", "Associate@123")
	var pending *lifecycle.PendingApprovalError
	require.ErrorAs(t, err, &pending)

	// Toggling a never-approved account is refused.
	_, err = env.associates.ToggleStatus(ctx, env.adminSess, u.ID, true)
	require.ErrorAs(t, err, &pending)

	// First approval activates and welcomes.
	u, err = env.associates.ApproveAssociate(ctx, env.adminSess, u.ID)
	require.NoError(t, err)
	require.True(t, u.IsActive)
	require.NotNil(t, u.ApprovedAt)
	require.Len(t, env.messenger.Emails(), 1)
	require.Equal(t, constants.EmailSubjectWelcome, env.messenger.Emails()[0].Subject)
	require.Len(t, env.messenger.SMS(), 1)

	// Login by unique id works once active.
	res, err := env.auth.Login(ctx, "BA-001", "Associate@123")
	require.NoError(t, err)
	assoc := res.Session
	require.Equal(t, models.RoleAssociate, assoc.Role)

	lead, err := env.leads.CreateLead(ctx, assoc, dtos.CreateLeadRequest{
		CustomerName:   "Kavya Iyer",
		Phone:          "+919811111111",
		NumberOfPeople: 4,
	})
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusNotAnswer, lead.Status)
	require.Equal(t, u.ID, lead.AssociateID)

	// A package needs a Confirmed lead.
	_, err = env.packages.CreatePackage(ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Domestic", BaseAmount: dec("20000"),
	})
	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)

	lead, err = env.leads.UpdateLeadStatus(ctx, assoc, lead.ID, "Confirmed")
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusConfirmed, lead.Status)

	pkg, err := env.packages.CreatePackage(ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Domestic", BaseAmount: dec("20000"),
	})
	require.NoError(t, err)
	require.Equal(t, models.PackageStatusDraft, pkg.Status)
	require.True(t, pkg.CommissionPercent.Equal(dec("3")))
	require.Equal(t, "600.00", pkg.CommissionAmount.StringFixed(2))
	require.Equal(t, "20600.00", pkg.FinalAmount.StringFixed(2))

	// One package per lead.
	_, err = env.packages.CreatePackage(ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Domestic", BaseAmount: dec("1000"),
	})
	require.ErrorAs(t, err, &verr)

	// Draft packages are not payable.
	_, err = env.commissions.RecordPayment(ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, TransactionID: utils.Ptr("TXN1"),
	})
	require.ErrorAs(t, err, &verr)

	pkg, err = env.packages.ApprovePackage(ctx, env.adminSess, pkg.ID, dtos.ApprovePackageRequest{})
	require.NoError(t, err)
	require.Equal(t, models.PackageStatusApproved, pkg.Status)
	require.True(t, pkg.AdminApproved)

	n, err := env.notifications.SendCommissionReminder(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Paid requires a transaction id.
	_, err = env.commissions.RecordPayment(ctx, env.adminSess, dtos.RecordPaymentRequest{LeadID: &lead.ID})
	require.ErrorAs(t, err, &verr)

	c, err := env.commissions.RecordPayment(ctx, env.adminSess, dtos.RecordPaymentRequest{
		LeadID: &lead.ID, TransactionID: utils.Ptr(" TXN1 "),
	})
	require.NoError(t, err)
	require.Equal(t, models.CommissionStatusPaid, c.Status)
	require.Equal(t, "600.00", c.Amount.StringFixed(2))
	require.Equal(t, "TXN1", utils.Val(c.TransactionID))
	require.Equal(t, u.ID, c.AssociateID)
	require.NotNil(t, c.PaymentDate)

	emails := env.messenger.Emails()
	require.Equal(t, constants.EmailSubjectCommissionPaid, emails[len(emails)-1].Subject)

	// Paying twice fails the same way however the package is addressed.
	_, err = env.commissions.RecordPayment(ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, TransactionID: utils.Ptr("TXN2"),
	})
	var paid *lifecycle.AlreadyPaidError
	require.ErrorAs(t, err, &paid)
	require.Equal(t, pkg.ID, paid.PackageID)

	// The rejected attempt left nothing behind.
	list, total, err := env.commissions.ListCommissions(ctx, env.adminSess, models.CommissionFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "TXN1", utils.Val(list[0].TransactionID))
	require.Equal(t, 1, countType(env.publisher.Types(), models.NotificationCommissionPaid))

	n, err = env.notifications.SendCommissionReminder(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	sum, err := env.commissions.Summary(ctx, assoc, nil)
	require.NoError(t, err)
	require.Equal(t, "600.00", sum.Earned.StringFixed(2))
	require.Equal(t, "600.00", sum.Paid.StringFixed(2))
	require.True(t, sum.Pending.IsZero())
	require.Equal(t, 1, sum.PaidCount)

	// Completing the trip carries the lead along.
	pkg, err = env.packages.UpdatePackageStatus(ctx, env.adminSess, pkg.ID, "TripComplete")
	require.NoError(t, err)
	require.Equal(t, models.PackageStatusTripComplete, pkg.Status)

	lead, err = env.leads.GetLead(ctx, assoc, lead.ID)
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusTripCompleted, lead.Status)

	var terr *lifecycle.InvalidTransitionError
	_, err = env.leads.UpdateLeadStatus(ctx, assoc, lead.ID, "NotAnswer")
	require.ErrorAs(t, err, &terr)

	require.Contains(t, env.publisher.Types(), models.NotificationCommissionPaid)
	require.Contains(t, env.publisher.Types(), models.NotificationPackageStatus)
}

func TestCreatePackage_InternationalRate(t *testing.T) {
	env := newTestEnv(t)
	_, s := env.activeAssociate(t, "intl@example.com")
	lead := env.confirmedLead(t, s, "Nikhil Rao")

	pkg, err := env.packages.CreatePackage(env.ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "International", BaseAmount: dec("10000"),
	})
	require.NoError(t, err)
	require.Equal(t, "500.00", pkg.CommissionAmount.StringFixed(2))
	require.Equal(t, "10500.00", pkg.FinalAmount.StringFixed(2))
}

func TestCreatePackage_PolicyRules(t *testing.T) {
	env := newTestEnv(t)
	_, s := env.activeAssociate(t, "policy@example.com")

	// Associates cannot build packages.
	lead := env.confirmedLead(t, s, "Sana Qureshi")
	_, err := env.packages.CreatePackage(env.ctx, s, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Resort", BaseAmount: dec("5000"),
	})
	var ferr *lifecycle.ForbiddenError
	require.ErrorAs(t, err, &ferr)

	// An inactive policy blocks creation unless a rate is given.
	_, err = env.policies.SetPolicyActive(env.ctx, env.adminSess, "Resort", false)
	require.NoError(t, err)
	_, err = env.packages.CreatePackage(env.ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Resort", BaseAmount: dec("5000"),
	})
	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)

	rate := dec("10")
	pkg, err := env.packages.CreatePackage(env.ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Resort", BaseAmount: dec("5000"), CommissionPercent: &rate,
	})
	require.NoError(t, err)
	require.Equal(t, "500.00", pkg.CommissionAmount.StringFixed(2))

	// Changing the policy later leaves the package price untouched.
	_, err = env.policies.UpsertPolicy(env.ctx, env.adminSess, dtos.UpsertPolicyRequest{
		PackageType: "Resort", CommissionPercent: dec("7"), IsActive: utils.Ptr(true),
	})
	require.NoError(t, err)
	got, err := env.packages.GetPackage(env.ctx, env.adminSess, pkg.ID)
	require.NoError(t, err)
	require.Equal(t, "500.00", got.CommissionAmount.StringFixed(2))

	_, err = env.policies.UpsertPolicy(env.ctx, env.adminSess, dtos.UpsertPolicyRequest{
		PackageType: "Resort", CommissionPercent: dec("150"),
	})
	require.ErrorAs(t, err, &verr)
}

func TestApprovePackage_Overrides(t *testing.T) {
	env := newTestEnv(t)
	_, s := env.activeAssociate(t, "override@example.com")
	lead := env.confirmedLead(t, s, "Override")

	pkg, err := env.packages.CreatePackage(env.ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Domestic", BaseAmount: dec("20000"),
	})
	require.NoError(t, err)

	commission := dec("750")
	pkg, err = env.packages.ApprovePackage(env.ctx, env.adminSess, pkg.ID, dtos.ApprovePackageRequest{CommissionAmount: &commission})
	require.NoError(t, err)
	require.Equal(t, "750.00", pkg.CommissionAmount.StringFixed(2))
	require.Equal(t, "20750.00", pkg.FinalAmount.StringFixed(2))

	// Approve is one-shot.
	_, err = env.packages.ApprovePackage(env.ctx, env.adminSess, pkg.ID, dtos.ApprovePackageRequest{})
	var terr *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &terr)

	// Status endpoint cannot approve.
	_, err = env.packages.UpdatePackageStatus(env.ctx, env.adminSess, pkg.ID, "Approved")
	require.ErrorAs(t, err, &terr)

	pkg, err = env.packages.UpdatePackageStatus(env.ctx, env.adminSess, pkg.ID, "Cancelled")
	require.NoError(t, err)
	got, err := env.leads.GetLead(env.ctx, env.adminSess, lead.ID)
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusTripCancelled, got.Status)

	_, err = env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, TransactionID: utils.Ptr("TXN"),
	})
	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRecordPayment_PendingThenPaid(t *testing.T) {
	env := newTestEnv(t)
	assoc, s := env.activeAssociate(t, "pending@example.com")
	lead := env.confirmedLead(t, s, "Pending")

	pkg, err := env.packages.CreatePackage(env.ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Domestic", BaseAmount: dec("1000"),
	})
	require.NoError(t, err)
	_, err = env.packages.ApprovePackage(env.ctx, env.adminSess, pkg.ID, dtos.ApprovePackageRequest{})
	require.NoError(t, err)

	first, err := env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, Status: "Pending",
	})
	require.NoError(t, err)
	require.Equal(t, models.CommissionStatusPending, first.Status)

	again, err := env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, Status: "Pending",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	// Amount and associate must match the package when given.
	wrong := dec("31")
	_, err = env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, Amount: &wrong, TransactionID: utils.Ptr("TXN"),
	})
	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)

	other := uuid.New()
	_, err = env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, AssociateID: &other, TransactionID: utils.Ptr("TXN"),
	})
	require.ErrorAs(t, err, &verr)

	amount := dec("30")
	paid, err := env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, LeadID: &lead.ID, AssociateID: &assoc.ID, Amount: &amount, TransactionID: utils.Ptr("TXN9"),
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, paid.ID, "pending record is promoted, not duplicated")
	require.Equal(t, models.CommissionStatusPaid, paid.Status)

	list, total, err := env.commissions.ListCommissions(env.ctx, s, models.CommissionFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, list, 1)
}

func TestRecordPayment_LeadWithoutPackage(t *testing.T) {
	env := newTestEnv(t)
	_, s := env.activeAssociate(t, "nopkg@example.com")
	lead := env.confirmedLead(t, s, "No Package")

	_, err := env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		LeadID: &lead.ID, TransactionID: utils.Ptr("TXN"),
	})
	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)

	missing := uuid.New()
	_, err = env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		LeadID: &missing, TransactionID: utils.Ptr("TXN"),
	})
	var nf *lifecycle.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCommissionSummary_PaidSurvivesCancelAndReassign(t *testing.T) {
	env := newTestEnv(t)
	a, sa := env.activeAssociate(t, "first@example.com")
	b, sb := env.activeAssociate(t, "second@example.com")
	lead := env.confirmedLead(t, sa, "Paid Then Cancelled")
	waiting := env.confirmedLead(t, sa, "Still Waiting")

	pkg, err := env.packages.CreatePackage(env.ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: lead.ID, PackageType: "Domestic", BaseAmount: dec("20000"),
	})
	require.NoError(t, err)
	_, err = env.packages.ApprovePackage(env.ctx, env.adminSess, pkg.ID, dtos.ApprovePackageRequest{})
	require.NoError(t, err)
	_, err = env.commissions.RecordPayment(env.ctx, env.adminSess, dtos.RecordPaymentRequest{
		PackageID: &pkg.ID, TransactionID: utils.Ptr("TXN1"),
	})
	require.NoError(t, err)

	other, err := env.packages.CreatePackage(env.ctx, env.adminSess, dtos.CreatePackageRequest{
		LeadID: waiting.ID, PackageType: "Domestic", BaseAmount: dec("10000"),
	})
	require.NoError(t, err)
	_, err = env.packages.ApprovePackage(env.ctx, env.adminSess, other.ID, dtos.ApprovePackageRequest{})
	require.NoError(t, err)

	_, err = env.packages.UpdatePackageStatus(env.ctx, env.adminSess, pkg.ID, "Cancelled")
	require.NoError(t, err)

	sum, err := env.commissions.Summary(env.ctx, sa, nil)
	require.NoError(t, err)
	require.Equal(t, "600.00", sum.Paid.StringFixed(2))
	require.Equal(t, 1, sum.PaidCount)
	require.Equal(t, "300.00", sum.Pending.StringFixed(2))
	require.Equal(t, 1, sum.UnpaidCount)
	require.Equal(t, "900.00", sum.Earned.StringFixed(2))

	// Paid money stays with the associate it was paid to.
	_, err = env.leads.UpdateLead(env.ctx, env.adminSess, lead.ID, dtos.UpdateLeadRequest{AssociateID: &b.ID})
	require.NoError(t, err)

	sum, err = env.commissions.Summary(env.ctx, env.adminSess, &a.ID)
	require.NoError(t, err)
	require.Equal(t, "600.00", sum.Paid.StringFixed(2))

	sum, err = env.commissions.Summary(env.ctx, sb, nil)
	require.NoError(t, err)
	require.True(t, sum.Paid.IsZero())
	require.True(t, sum.Earned.IsZero())
	require.Zero(t, sum.PaidCount)

	all, err := env.commissions.Summary(env.ctx, env.adminSess, nil)
	require.NoError(t, err)
	require.Equal(t, "900.00", all.Earned.StringFixed(2))
}
