package app

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/config"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/dtos"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/realtime"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/routes"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/gorilla/mux"
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

type nopMessenger struct{}

func (nopMessenger) SendEmail(context.Context, string, string, string, string, string) error {
	return nil
}
func (nopMessenger) SendSMS(context.Context, string, string) error { return nil }

type testServer struct {
	router *mux.Router
	store  *repositories.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		AppUrl:         constants.DefaultAppURL,
		StoreDriver:    constants.StoreDriverMemory,
		RSAPrivateKey:  testKey,
		RSAPublicKey:   &testKey.PublicKey,
		AccessTokenTTL: time.Hour,
		LoginRateLimit: "100-M",
	}
	store := repositories.NewMemoryStore()
	hub := realtime.NewHub()
	go hub.Run(ctx)

	svc := NewServices(cfg, store, repositories.NewMemoryRevocationStore(), nopMessenger{}, hub)
	require.NoError(t, svc.Policies.EnsureDefaults(ctx))
	require.NoError(t, SeedTestData(ctx, store))

	router, err := NewRouter(cfg, store, svc, hub)
	require.NoError(t, err)
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, identifier, password string) dtos.LoginResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, routes.AuthLogin, "", dtos.LoginRequest{Identifier: identifier, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res dtos.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, routes.Health, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dtos.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, constants.StoreDriverMemory, res.Store)
}

func TestRouter_LoginAndAccessControl(t *testing.T) {
	s := newTestServer(t)

	admin := s.login(t, "admin@trippartners.example", "Admin@12345")
	require.Equal(t, "AD-001", admin.User.UniqueID)
	require.Equal(t, "/admin/dashboard", admin.RedirectTo)

	riya := s.login(t, "BA-001", "Associate@123")
	require.Equal(t, "/dashboard", riya.RedirectTo)

	rec := s.do(t, http.MethodPost, routes.AuthLogin, "", dtos.LoginRequest{Identifier: "BA-002", Password: "Associate@123"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, utils.ErrCodePendingApproval, decodeError(t, rec).Code)

	rec = s.do(t, http.MethodGet, routes.Leads, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, routes.Associates, riya.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, routes.Associates, admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page dtos.Page[dtos.User]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 2, page.Total)

	rec = s.do(t, http.MethodPost, routes.AuthLogout, riya.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, routes.AuthMe, riya.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Leads(t *testing.T) {
	s := newTestServer(t)
	riya := s.login(t, "BA-001", "Associate@123")

	rec := s.do(t, http.MethodPost, routes.Leads, riya.AccessToken, dtos.CreateLeadRequest{
		CustomerName: "Walk-in", Phone: "+919822222222", NumberOfPeople: 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var lead models.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	require.Equal(t, riya.User.ID, lead.AssociateID.String())
	require.Equal(t, models.LeadStatusNotAnswer, lead.Status)

	rec = s.do(t, http.MethodPost, routes.Leads, riya.AccessToken, dtos.CreateLeadRequest{
		CustomerName: "Crowd", Phone: "+919822222222", NumberOfPeople: 99,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, utils.ErrCodeValidation, decodeError(t, rec).Code)

	rec = s.do(t, http.MethodGet, routes.Leads, riya.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page dtos.Page[models.Lead]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 4, page.Total)

	rec = s.do(t, http.MethodDelete, "/api/v1/leads/"+lead.ID.String(), riya.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Gate(t *testing.T) {
	s := newTestServer(t)
	riya := s.login(t, "BA-001", "Associate@123")

	var res dtos.GateResponse
	rec := s.do(t, http.MethodGet, routes.Gate+"?path=/admin/leads", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.False(t, res.Render)
	require.Equal(t, "/login", res.RedirectTo)

	rec = s.do(t, http.MethodGet, routes.Gate+"?path=/admin/leads", riya.AccessToken, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "/dashboard", res.RedirectTo)

	rec = s.do(t, http.MethodGet, routes.Gate, "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeedTestData_Idempotent(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, SeedTestData(ctx, s.store))

	require.NoError(t, s.store.WithTx(ctx, func(tx repositories.Tx) error {
		admin, err := tx.Users().GetByUniqueID(ctx, "AD-001")
		require.NoError(t, err)
		require.NotNil(t, admin)
		require.Equal(t, models.RoleAdmin, admin.Role)

		_, total, err := tx.Users().List(ctx, models.UserFilter{})
		require.NoError(t, err)
		require.Equal(t, 3, total)

		_, total, err = tx.Leads().List(ctx, models.LeadFilter{})
		require.NoError(t, err)
		require.Equal(t, 3, total)
		return nil
	}))
}
