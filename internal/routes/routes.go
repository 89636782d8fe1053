package routes

const (
	// Health
	Health = "/health"

	// ───────────────────────────────
	// Auth
	// ───────────────────────────────
	AuthLogin          = "/api/v1/auth/login"
	AuthRegister       = "/api/v1/auth/register"
	AuthLogout         = "/api/v1/auth/logout"
	AuthSetNewPassword = "/api/v1/auth/set-new-password"
	AuthMe             = "/api/v1/auth/me"

	// Client route gate
	Gate = "/api/v1/gate"

	// ───────────────────────────────
	// Associates
	// ───────────────────────────────
	Associates        = "/api/v1/associates"
	Associate         = "/api/v1/associates/{id}"
	AssociateApprove  = "/api/v1/associates/{id}/approve"
	AssociateStatus   = "/api/v1/associates/{id}/status"
	Profile           = "/api/v1/profile"
	ProfileDeactivate = "/api/v1/profile/deactivate"

	// ───────────────────────────────
	// Leads
	// ───────────────────────────────
	Leads      = "/api/v1/leads"
	Lead       = "/api/v1/leads/{id}"
	LeadStatus = "/api/v1/leads/{id}/status"

	// ───────────────────────────────
	// Packages
	// ───────────────────────────────
	Packages       = "/api/v1/packages"
	Package        = "/api/v1/packages/{id}"
	PackageApprove = "/api/v1/packages/{id}/approve"
	PackageStatus  = "/api/v1/packages/{id}/status"

	// ───────────────────────────────
	// Commissions & policies
	// ───────────────────────────────
	Commissions        = "/api/v1/commissions"
	CommissionPayments = "/api/v1/commissions/payments"
	CommissionSummary  = "/api/v1/commissions/summary"
	Policies           = "/api/v1/policies"
	Policy             = "/api/v1/policies/{type}"

	// ───────────────────────────────
	// Notifications & dashboard
	// ───────────────────────────────
	Notifications            = "/api/v1/notifications"
	NotificationsUnreadCount = "/api/v1/notifications/unread-count"
	NotificationRead         = "/api/v1/notifications/{id}/read"
	NotificationsReadAll     = "/api/v1/notifications/read-all"
	NotificationsWS          = "/api/v1/notifications/ws"
	Dashboard                = "/api/v1/dashboard"
)
