package auth

import (
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-router"
)

// EnvConfig is a Config implementation sourced from the process
// environment. Zero values fall back to the package defaults.
type EnvConfig struct {
	SigningKey         string
	TokenExpiration    int
	TokenLookup        string
	AuthScheme         string
	Issuer             string
	Audience           []string
	HashCost           int
	GoogleClientID     string
	GoogleClientSecret string
}

// ConfigFromEnv loads the auth configuration from environment
// variables. TOKEN_TTL_HOURS defaults to 24 and BCRYPT_COST to
// DefaultHashCost when unset or unparseable.
func ConfigFromEnv() *EnvConfig {
	cfg := &EnvConfig{
		SigningKey:         os.Getenv("JWT_KEY"),
		TokenExpiration:    envInt("TOKEN_TTL_HOURS", 24),
		TokenLookup:        "header:" + router.HeaderAuthorization,
		AuthScheme:         SchemeBearer,
		Issuer:             os.Getenv("TOKEN_ISSUER"),
		HashCost:           envInt("BCRYPT_COST", DefaultHashCost),
		GoogleClientID:     os.Getenv("AUTH_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("AUTH_GOOGLE_CLIENT_SECRET"),
	}

	if aud := os.Getenv("TOKEN_AUDIENCE"); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	return cfg
}

func (c *EnvConfig) GetSigningKey() string { return c.SigningKey }

func (c *EnvConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 24
	}
	return c.TokenExpiration
}

func (c *EnvConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:" + router.HeaderAuthorization
	}
	return c.TokenLookup
}

func (c *EnvConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return SchemeBearer
	}
	return c.AuthScheme
}

func (c *EnvConfig) GetIssuer() string { return c.Issuer }

func (c *EnvConfig) GetAudience() []string { return c.Audience }

func (c *EnvConfig) GetHashCost() int {
	if c.HashCost <= 0 {
		return DefaultHashCost
	}
	return c.HashCost
}

func (c *EnvConfig) GetGoogleClientID() string { return c.GoogleClientID }

func (c *EnvConfig) GetGoogleClientSecret() string { return c.GoogleClientSecret }

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}
