package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/stretchr/testify/require"
)

func baseEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STORE_DRIVER", "DB_URL", "REDIS_URL", "ACCESS_TOKEN_TTL", "LD_SDK_KEY",
		"RSA_PRIVATE_KEY_BASE64", "RSA_PUBLIC_KEY_BASE64", "SEED_DB_WITH_TEST_DATA",
		"SENDGRID_FROM_EMAIL", "CORS_HIGH_SECURITY", "APP_PORT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("ALLOW_EPHEMERAL_KEYS", "true")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := loadFromEnv()
	require.NoError(t, err)
	require.Equal(t, constants.StoreDriverMemory, cfg.StoreDriver)
	require.Equal(t, constants.DefaultAppPort, cfg.AppPort)
	require.Equal(t, constants.DefaultAccessTokenTTL, cfg.AccessTokenTTL)
	require.NotNil(t, cfg.RSAPrivateKey)
	require.True(t, cfg.LDFlag_SeedDbWithTestData, "memory store seeds by default")
	require.Equal(t, constants.DefaultFromEmail, cfg.LDFlag_SendgridFromEmail)
	require.False(t, cfg.LDFlag_SMSNotificationsEnabled)
}

func TestLoadFromEnv_FlagsFromEnvironment(t *testing.T) {
	baseEnv(t)
	t.Setenv("SEED_DB_WITH_TEST_DATA", "false")
	t.Setenv("CORS_HIGH_SECURITY", "true")
	t.Setenv("SENDGRID_FROM_EMAIL", "ops@example.com")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")

	cfg, err := loadFromEnv()
	require.NoError(t, err)
	require.False(t, cfg.LDFlag_SeedDbWithTestData)
	require.True(t, cfg.LDFlag_CORSHighSecurity)
	require.Equal(t, "ops@example.com", cfg.LDFlag_SendgridFromEmail)
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"STORE_DRIVER": "mongo"},
		"postgres without url": {"STORE_DRIVER": "postgres"},
		"bad ttl":              {"ACCESS_TOKEN_TTL": "soon"},
		"negative ttl":         {"ACCESS_TOKEN_TTL": "-1h"},
		"keys required":        {"ALLOW_EPHEMERAL_KEYS": "false"},
		"undecodable key":      {"RSA_PRIVATE_KEY_BASE64": "%%%", "RSA_PUBLIC_KEY_BASE64": "%%%"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			baseEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := loadFromEnv()
			require.Error(t, err)
		})
	}
}

func TestLoadFromEnv_ConfiguredKeys(t *testing.T) {
	baseEnv(t)
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	priv := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pub := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	t.Setenv("RSA_PRIVATE_KEY_BASE64", base64.StdEncoding.EncodeToString(priv))
	t.Setenv("RSA_PUBLIC_KEY_BASE64", base64.StdEncoding.EncodeToString(pub))
	t.Setenv("ALLOW_EPHEMERAL_KEYS", "false")

	cfg, err := loadFromEnv()
	require.NoError(t, err)
	require.True(t, key.Equal(cfg.RSAPrivateKey))
	require.True(t, key.PublicKey.Equal(cfg.RSAPublicKey))
}
