package auth_test

import (
	"testing"

	auth "github.com/prestalink/auth"
	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_KEY", "env-signing-key")
	t.Setenv("TOKEN_TTL_HOURS", "48")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("AUTH_GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("AUTH_GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("TOKEN_AUDIENCE", "mobile-app, admin-console")

	cfg := auth.ConfigFromEnv()

	assert.Equal(t, "env-signing-key", cfg.GetSigningKey())
	assert.Equal(t, 48, cfg.GetTokenExpiration())
	assert.Equal(t, 10, cfg.GetHashCost())
	assert.Equal(t, "client-id", cfg.GetGoogleClientID())
	assert.Equal(t, "client-secret", cfg.GetGoogleClientSecret())
	assert.Equal(t, []string{"mobile-app", "admin-console"}, cfg.GetAudience())
	assert.Equal(t, auth.SchemeBearer, cfg.GetAuthScheme())
	assert.Equal(t, "header:Authorization", cfg.GetTokenLookup())
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_KEY", "env-signing-key")
	t.Setenv("TOKEN_TTL_HOURS", "")
	t.Setenv("BCRYPT_COST", "")

	cfg := auth.ConfigFromEnv()

	assert.Equal(t, 24, cfg.GetTokenExpiration())
	assert.Equal(t, auth.DefaultHashCost, cfg.GetHashCost())
	assert.Empty(t, cfg.GetAudience())
}

func TestConfigFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("JWT_KEY", "env-signing-key")
	t.Setenv("TOKEN_TTL_HOURS", "soon")
	t.Setenv("BCRYPT_COST", "-4")

	cfg := auth.ConfigFromEnv()

	assert.Equal(t, 24, cfg.GetTokenExpiration())
	assert.Equal(t, auth.DefaultHashCost, cfg.GetHashCost())
}

func TestEnvConfigZeroValueFallbacks(t *testing.T) {
	cfg := &auth.EnvConfig{}

	assert.Equal(t, 24, cfg.GetTokenExpiration())
	assert.Equal(t, auth.DefaultHashCost, cfg.GetHashCost())
	assert.Equal(t, auth.SchemeBearer, cfg.GetAuthScheme())
	assert.Equal(t, "header:Authorization", cfg.GetTokenLookup())
}
