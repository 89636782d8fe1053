package config

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	GRPCPort         string
	AppUrl           string
	StoreDriver      string
	DBUrl            string
	RedisURL         string

	RSAPrivateKey *rsa.PrivateKey
	RSAPublicKey  *rsa.PublicKey

	SendgridAPIKey   string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromPhone  string

	AccessTokenTTL         time.Duration
	LoginRateLimit         string
	CommissionReminderCron string

	LDFlag_SeedDbWithTestData      bool
	LDFlag_CORSHighSecurity        bool
	LDFlag_SendgridSandboxMode     bool
	LDFlag_SendgridFromEmail       string
	LDFlag_SMSNotificationsEnabled bool
}

const (
	LDConnectionTimeout = 5 * time.Second
	LDServerContextKind = "service"
)

// flagSource answers feature-flag lookups. LaunchDarkly when an SDK key is
// configured, plain environment variables otherwise.
type flagSource interface {
	Bool(key string, def bool) bool
	String(key string, def string) string
	Close()
}

type envFlags struct{}

func envFlagName(key string) string { return strings.ToUpper(key) }

func (envFlags) Bool(key string, def bool) bool { return getEnvBool(envFlagName(key), def) }
func (envFlags) String(key string, def string) string {
	return getEnv(envFlagName(key), def)
}
func (envFlags) Close() {}

type ldFlags struct {
	client *ld.LDClient
	ctx    ldcontext.Context
}

func (f ldFlags) Bool(key string, def bool) bool {
	v, err := f.client.BoolVariation(key, f.ctx, def)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Error retrieving %s flag, using default %t", key, def)
		return def
	}
	utils.Logger.Debugf("%s flag: %t", key, v)
	return v
}

func (f ldFlags) String(key string, def string) string {
	v, err := f.client.StringVariation(key, f.ctx, def)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Error retrieving %s flag, using default %q", key, def)
		return def
	}
	return v
}

func (f ldFlags) Close() { _ = f.client.Close() }

// LoadConfig reads an optional .env file and the process environment.
// Misconfiguration is fatal.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		utils.Logger.WithError(err).Warn("Failed to read .env file")
	}

	cfg, err := loadFromEnv()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}
	return cfg
}

func loadFromEnv() (*Config, error) {
	appName := getEnv("APP_NAME", constants.AppName)
	utils.Logger.Info("Loading config for app: ", appName)

	cfg := &Config{
		OrganizationName:       constants.OrganizationName,
		AppName:                appName,
		AppPort:                getEnv("APP_PORT", constants.DefaultAppPort),
		GRPCPort:               getEnv("GRPC_PORT", constants.DefaultGRPCPort),
		AppUrl:                 getEnv("APP_URL", constants.DefaultAppURL),
		StoreDriver:            strings.ToLower(getEnv("STORE_DRIVER", constants.DefaultStoreDriver)),
		DBUrl:                  os.Getenv("DB_URL"),
		RedisURL:               os.Getenv("REDIS_URL"),
		SendgridAPIKey:         os.Getenv("SENDGRID_API_KEY"),
		TwilioAccountSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:        os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:        os.Getenv("TWILIO_FROM_PHONE"),
		LoginRateLimit:         getEnv("LOGIN_RATE_LIMIT", constants.DefaultLoginRateLimit),
		CommissionReminderCron: getEnv("COMMISSION_REMINDER_CRON", constants.CommissionReminderCronSpec),
	}

	switch cfg.StoreDriver {
	case constants.StoreDriverMemory:
	case constants.StoreDriverPostgres:
		if cfg.DBUrl == "" {
			return nil, fmt.Errorf("DB_URL env var is required when STORE_DRIVER=%s", constants.StoreDriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	ttl, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL.String()))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be a positive duration")
	}
	cfg.AccessTokenTTL = ttl

	if cfg.RSAPrivateKey, cfg.RSAPublicKey, err = loadRSAKeys(); err != nil {
		return nil, err
	}

	flags := newFlagSource()
	defer flags.Close()

	cfg.LDFlag_SeedDbWithTestData = flags.Bool("seed_db_with_test_data", cfg.StoreDriver == constants.StoreDriverMemory)
	cfg.LDFlag_CORSHighSecurity = flags.Bool("cors_high_security", false)
	cfg.LDFlag_SendgridSandboxMode = flags.Bool("sendgrid_sandbox_mode", false)
	cfg.LDFlag_SendgridFromEmail = flags.String("sendgrid_from_email", "")
	if cfg.LDFlag_SendgridFromEmail == "" {
		cfg.LDFlag_SendgridFromEmail = constants.DefaultFromEmail // Fallback
	}
	cfg.LDFlag_SMSNotificationsEnabled = flags.Bool("sms_notifications_enabled", false)

	return cfg, nil
}

func newFlagSource() flagSource {
	key := os.Getenv("LD_SDK_KEY")
	if key == "" {
		utils.Logger.Info("LD_SDK_KEY not set; reading feature flags from the environment.")
		return envFlags{}
	}
	client, err := ld.MakeClient(key, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Warn("Failed to create LaunchDarkly client; falling back to environment flags")
		return envFlags{}
	}
	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), constants.AppName)
	return ldFlags{client: client, ctx: ctx}
}

func loadRSAKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privB64 := os.Getenv("RSA_PRIVATE_KEY_BASE64")
	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")

	if privB64 == "" || pubB64 == "" {
		if !getEnvBool("ALLOW_EPHEMERAL_KEYS", false) {
			return nil, nil, fmt.Errorf("RSA_PRIVATE_KEY_BASE64 and RSA_PUBLIC_KEY_BASE64 are required (or set ALLOW_EPHEMERAL_KEYS=true)")
		}
		utils.Logger.Warn("No RSA keys configured; generating an ephemeral key pair. Tokens will not survive a restart.")
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, nil, fmt.Errorf("generate rsa key: %w", err)
		}
		return key, &key.PublicKey, nil
	}

	privPEM, err := base64.StdEncoding.DecodeString(privB64)
	if err != nil {
		return nil, nil, fmt.Errorf("decode RSA_PRIVATE_KEY_BASE64: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse RSA private key: %w", err)
	}

	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		return nil, nil, fmt.Errorf("decode RSA_PUBLIC_KEY_BASE64: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	return privKey, pubKey, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		utils.Logger.Warnf("Invalid boolean for %s: %q, using %t", key, v, def)
		return def
	}
	return b
}
