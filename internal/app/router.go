package app

import (
	"net/http"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/config"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/controllers"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/middleware"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/realtime"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/routes"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/services"
	"github.com/gorilla/mux"
)

type Services struct {
	Auth          services.AuthService
	Associates    services.AssociateService
	Leads         services.LeadService
	Packages      services.PackageService
	Commissions   services.CommissionService
	Policies      services.PolicyService
	Notifications services.NotificationService
	Dashboard     services.DashboardService
}

func NewServices(
	cfg *config.Config,
	store repositories.Store,
	revoked repositories.RevocationStore,
	messenger services.Messenger,
	hub *realtime.Hub,
) *Services {
	return &Services{
		Auth:          services.NewAuthService(store, revoked, services.NewJWTService(cfg), hub),
		Associates:    services.NewAssociateService(store, messenger, hub, cfg.AppUrl),
		Leads:         services.NewLeadService(store, hub),
		Packages:      services.NewPackageService(store, hub),
		Commissions:   services.NewCommissionService(store, messenger, hub),
		Policies:      services.NewPolicyService(store),
		Notifications: services.NewNotificationService(store, hub),
		Dashboard:     services.NewDashboardService(store),
	}
}

// AllowedOrigins lists the browser origins for CORS and websocket upgrades.
func AllowedOrigins(cfg *config.Config) []string {
	origins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		origins = append(origins, constants.CORSLowSecurityAllowedOriginLocalhost)
	}
	return origins
}

func NewRouter(cfg *config.Config, store repositories.Store, svc *Services, hub *realtime.Hub) (*mux.Router, error) {
	// Controllers
	healthController := controllers.NewHealthController(store, cfg.StoreDriver)
	authController := controllers.NewAuthController(svc.Auth)
	associateController := controllers.NewAssociateController(svc.Associates)
	leadController := controllers.NewLeadController(svc.Leads)
	packageController := controllers.NewPackageController(svc.Packages)
	commissionController := controllers.NewCommissionController(svc.Commissions, svc.Policies)
	notificationController := controllers.NewNotificationController(svc.Notifications, svc.Dashboard, hub, AllowedOrigins(cfg))

	loginLimiter, err := middleware.RateLimit(cfg.LoginRateLimit)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()

	// Health
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	// Public auth
	router.Handle(routes.AuthLogin, loginLimiter(http.HandlerFunc(authController.LoginHandler))).Methods(http.MethodPost)
	router.Handle(routes.AuthRegister, loginLimiter(http.HandlerFunc(authController.RegisterHandler))).Methods(http.MethodPost)

	// Route gate works with or without a session
	router.Handle(routes.Gate, middleware.OptionalAuthMiddleware(svc.Auth)(http.HandlerFunc(authController.GateHandler))).Methods(http.MethodGet)

	// Secured
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(svc.Auth))
	secured.Use(middleware.PasswordChangeMiddleware(routes.AuthSetNewPassword, routes.AuthMe, routes.AuthLogout))

	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AdminOnlyMiddleware(h)
	}

	secured.HandleFunc(routes.AuthLogout, authController.LogoutHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AuthSetNewPassword, authController.SetNewPasswordHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AuthMe, authController.MeHandler).Methods(http.MethodGet)

	// Associates (admin) and own profile
	secured.Handle(routes.Associates, adminOnly(associateController.ListAssociatesHandler)).Methods(http.MethodGet)
	secured.Handle(routes.Associates, adminOnly(associateController.CreateAssociateHandler)).Methods(http.MethodPost)
	secured.Handle(routes.Associate, adminOnly(associateController.GetAssociateHandler)).Methods(http.MethodGet)
	secured.Handle(routes.AssociateApprove, adminOnly(associateController.ApproveAssociateHandler)).Methods(http.MethodPost)
	secured.Handle(routes.AssociateStatus, adminOnly(associateController.ToggleAssociateHandler)).Methods(http.MethodPatch)
	secured.HandleFunc(routes.Profile, associateController.UpdateProfileHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.ProfileDeactivate, associateController.DeactivateSelfHandler).Methods(http.MethodPost)

	// Leads
	secured.HandleFunc(routes.Leads, leadController.ListLeadsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Leads, leadController.CreateLeadHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Lead, leadController.GetLeadHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Lead, leadController.UpdateLeadHandler).Methods(http.MethodPatch)
	secured.Handle(routes.Lead, adminOnly(leadController.DeleteLeadHandler)).Methods(http.MethodDelete)
	secured.HandleFunc(routes.LeadStatus, leadController.UpdateLeadStatusHandler).Methods(http.MethodPatch)

	// Packages
	secured.HandleFunc(routes.Packages, packageController.ListPackagesHandler).Methods(http.MethodGet)
	secured.Handle(routes.Packages, adminOnly(packageController.CreatePackageHandler)).Methods(http.MethodPost)
	secured.HandleFunc(routes.Package, packageController.GetPackageHandler).Methods(http.MethodGet)
	secured.Handle(routes.PackageApprove, adminOnly(packageController.ApprovePackageHandler)).Methods(http.MethodPost)
	secured.Handle(routes.PackageStatus, adminOnly(packageController.UpdatePackageStatusHandler)).Methods(http.MethodPatch)

	// Commissions & policies
	secured.HandleFunc(routes.Commissions, commissionController.ListCommissionsHandler).Methods(http.MethodGet)
	secured.Handle(routes.CommissionPayments, adminOnly(commissionController.RecordPaymentHandler)).Methods(http.MethodPost)
	secured.HandleFunc(routes.CommissionSummary, commissionController.SummaryHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Policies, commissionController.ListPoliciesHandler).Methods(http.MethodGet)
	secured.Handle(routes.Policies, adminOnly(commissionController.UpsertPolicyHandler)).Methods(http.MethodPut)
	secured.Handle(routes.Policy, adminOnly(commissionController.TogglePolicyHandler)).Methods(http.MethodPatch)

	// Notifications & dashboard
	secured.HandleFunc(routes.Notifications, notificationController.ListNotificationsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.NotificationsUnreadCount, notificationController.UnreadCountHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.NotificationsReadAll, notificationController.MarkAllReadHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.NotificationRead, notificationController.MarkReadHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.NotificationsWS, notificationController.StreamHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Dashboard, notificationController.DashboardHandler).Methods(http.MethodGet)

	return router, nil
}
