package constants

import "time"

const (
	AppName          = "associate-service"
	OrganizationName = "Trip Partners"
	TokenIssuer      = "TripPartners"
)

// Server defaults, overridable through the environment.
const (
	DefaultAppPort     = "8080"
	DefaultGRPCPort    = "9090"
	DefaultAppURL      = "http://localhost:8080"
	DefaultStoreDriver = StoreDriverMemory
	DefaultFromEmail   = "no-reply@trippartners.example"

	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"

	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:5173"
)

// Auth
const (
	DefaultAccessTokenTTL   = 12 * time.Hour
	TemporaryPasswordLength = 10
	MinPasswordLength       = 8

	// ulule/limiter formatted rate: requests-period.
	DefaultLoginRateLimit = "10-M"
)

// Notifications
const (
	NotificationListLimit = 50
	WebsocketSendBuffer   = 16
	WebsocketPingPeriod   = 30 * time.Second
	WebsocketWriteWait    = 10 * time.Second
	WebsocketPongWait     = 60 * time.Second
)

// Jobs
const (
	CommissionReminderCronSpec   = "0 4 * * *" // 04:00 UTC daily
	CommissionReminderJobTimeout = 2 * time.Minute
	SeedTimeout                  = 30 * time.Second
)

// Default commission percentages seeded when no policy exists yet.
const (
	DefaultDomesticPercent      = "3"
	DefaultInternationalPercent = "5"
	DefaultResortPercent        = "4"
)

// Email
const (
	EmailSubjectWelcome        = "Welcome aboard, your associate account is active"
	EmailSubjectCommissionPaid = "Your commission has been paid"
)
