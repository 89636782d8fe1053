package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/config"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testKey *rsa.PrivateKey

func TestMain(m *testing.M) {
	utils.PasswordHashCost = bcrypt.MinCost

	var err error
	testKey, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

type fakeMessenger struct {
	mu     sync.Mutex
	emails []sentMessage
	sms    []sentMessage
}

func (f *fakeMessenger) SendEmail(_ context.Context, _, toEmail, subject, plainText, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, sentMessage{To: toEmail, Subject: subject, Body: plainText})
	return nil
}

func (f *fakeMessenger) SendSMS(_ context.Context, toPhone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sms = append(f.sms, sentMessage{To: toPhone, Body: body})
	return nil
}

func (f *fakeMessenger) Emails() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.emails...)
}

func (f *fakeMessenger) SMS() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sms...)
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []*models.Notification
}

func (p *recordingPublisher) Publish(n *models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, n)
}

func (p *recordingPublisher) Types() []models.NotificationType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.NotificationType, 0, len(p.sent))
	for _, n := range p.sent {
		out = append(out, n.Type)
	}
	return out
}

type testEnv struct {
	store     *repositories.MemoryStore
	messenger *fakeMessenger
	publisher *recordingPublisher

	auth          AuthService
	associates    AssociateService
	leads         LeadService
	packages      PackageService
	commissions   CommissionService
	policies      PolicyService
	notifications NotificationService
	dashboard     DashboardService

	admin     *models.User
	adminSess models.Session
	adminPass string
	ctx       context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		RSAPrivateKey:  testKey,
		RSAPublicKey:   &testKey.PublicKey,
		AccessTokenTTL: time.Hour,
		AppUrl:         "http://localhost:8080",
	}
	env := &testEnv{
		store:     repositories.NewMemoryStore(),
		messenger: &fakeMessenger{},
		publisher: &recordingPublisher{},
		adminPass: "Admin@12345",
		ctx:       context.Background(),
	}
	env.auth = NewAuthService(env.store, repositories.NewMemoryRevocationStore(), NewJWTService(cfg), env.publisher)
	env.associates = NewAssociateService(env.store, env.messenger, env.publisher, cfg.AppUrl)
	env.leads = NewLeadService(env.store, env.publisher)
	env.packages = NewPackageService(env.store, env.publisher)
	env.commissions = NewCommissionService(env.store, env.messenger, env.publisher)
	env.policies = NewPolicyService(env.store)
	env.notifications = NewNotificationService(env.store, env.publisher)
	env.dashboard = NewDashboardService(env.store)

	require.NoError(t, env.policies.EnsureDefaults(env.ctx))

	hash, err := utils.HashPassword(env.adminPass)
	require.NoError(t, err)
	now := time.Now().UTC()
	env.admin = &models.User{
		ID:           uuid.New(),
		Name:         "Admin",
		Email:        "admin@example.com",
		Role:         models.RoleAdmin,
		IsActive:     true,
		PasswordHash: hash,
		ApprovedAt:   &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.store.WithTx(env.ctx, func(tx repositories.Tx) error {
		code, err := tx.Users().NextUniqueID(env.ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		env.admin.UniqueID = code
		return tx.Users().Create(env.ctx, env.admin)
	}))
	env.adminSess = env.admin.Session()
	return env
}

// activeAssociate registers and approves an associate, returning its session.
func (e *testEnv) activeAssociate(t *testing.T, email string) (*models.User, models.Session) {
	t.Helper()
	u, err := e.auth.Register(e.ctx, dtos.RegisterRequest{
		Name:     "Associate " + email,
		Email:    email,
		Password: "Associate@123",
		Phone:    "+919800000001",
	})
	require.NoError(t, err)
	u, err = e.associates.ApproveAssociate(e.ctx, e.adminSess, u.ID)
	require.NoError(t, err)
	return u, u.Session()
}

// confirmedLead creates a lead for the associate and confirms it.
func (e *testEnv) confirmedLead(t *testing.T, s models.Session, customer string) *models.Lead {
	t.Helper()
	lead, err := e.leads.CreateLead(e.ctx, s, dtos.CreateLeadRequest{
		CustomerName:   customer,
		Phone:          "+919811111111",
		NumberOfPeople: 2,
	})
	require.NoError(t, err)
	lead, err = e.leads.UpdateLeadStatus(e.ctx, s, lead.ID, string(models.LeadStatusConfirmed))
	require.NoError(t, err)
	return lead
}
