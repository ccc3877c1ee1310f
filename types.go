package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, msg RegisterUserMessage) (string, *User, error)
	SignOut(ctx context.Context, authorizationHeader string) error
	AuthorizeUser(ctx context.Context, rawToken string) (*User, error)
	ValidateUser(ctx context.Context, email, password string) (*User, error)
}

// TokenService handles signing and validation of application access tokens
type TokenService interface {
	Generate(user *User, sessionLogID string) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (*JWTClaims, error)
}

// IdentityTokenVerifier validates a third party identity token and
// returns the verified profile embedded in it.
type IdentityTokenVerifier interface {
	VerifyIdentityToken(ctx context.Context, idToken string) (*IdentityProfile, error)
}

// IdentityProfile is the subset of a federated identity payload we consume
type IdentityProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Locale        string
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetHashCost() int
	GetGoogleClientID() string
	GetGoogleClientSecret() string
}

// Clock is the trusted time source used when stamping session logs.
// Tests override it to pin timestamps.
type Clock func() time.Time

// DefaultLogger returns the fallback logger used when none is injected
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
