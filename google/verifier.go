package google

import (
	"context"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	auth "github.com/prestalink/auth"
)

const (
	// DefaultJWKSetURL is Google's published signing key set
	DefaultJWKSetURL = "https://www.googleapis.com/oauth2/v3/certs"
)

// Google issues tokens under either issuer form
var acceptedIssuers = []string{
	"https://accounts.google.com",
	"accounts.google.com",
}

// Config for the Google ID token verifier
type Config struct {
	// ClientID is the OAuth client id the token audience must match
	ClientID string
	// JWKSetURL overrides the Google key set endpoint
	JWKSetURL string
	// KeyFunc bypasses JWKS fetching entirely when set
	KeyFunc jwt.Keyfunc
	Logger  auth.Logger
}

// Verifier validates Google issued ID tokens against the Google JWKS
// and extracts the identity profile
type Verifier struct {
	clientID string
	keyFunc  jwt.Keyfunc
	logger   auth.Logger
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// NewVerifier builds a verifier. Unless cfg.KeyFunc is provided it
// fetches Google's JWKS and keeps it refreshed in the background.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.ClientID == "" {
		return nil, goerrors.New(
			"google verifier requires a client id",
			goerrors.CategoryBadInput,
		).WithTextCode("MISSING_CLIENT_ID")
	}

	keyFn := cfg.KeyFunc
	if keyFn == nil {
		url := cfg.JWKSetURL
		if url == "" {
			url = DefaultJWKSetURL
		}

		jwks, err := keyfunc.Get(url, keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Printf("failed to do a background refresh of Google JWK set: %s", err)
			},
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load Google JWK set")
		}
		keyFn = jwks.Keyfunc
	}

	logger := cfg.Logger
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	return &Verifier{
		clientID: cfg.ClientID,
		keyFunc:  keyFn,
		logger:   logger,
	}, nil
}

// VerifyIdentityToken checks the signature, audience, expiry, and issuer
// of a Google ID token and returns the asserted profile. Every failure
// mode reports the same invalid identity token error.
func (v *Verifier) VerifyIdentityToken(ctx context.Context, identityToken string) (*auth.IdentityProfile, error) {
	if identityToken == "" {
		return nil, auth.ErrInvalidIdentityToken
	}

	claims := &idTokenClaims{}

	token, err := jwt.ParseWithClaims(identityToken, claims, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("google id token parse failed", "error", err)
		return nil, invalidToken(err)
	}

	if !token.Valid {
		return nil, auth.ErrInvalidIdentityToken
	}

	if !issuerAccepted(claims.Issuer) {
		v.logger.Debug("google id token issuer rejected", "issuer", claims.Issuer)
		return nil, auth.ErrInvalidIdentityToken
	}

	if claims.Email == "" {
		return nil, auth.ErrInvalidIdentityToken
	}

	return &auth.IdentityProfile{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Locale:        claims.Locale,
	}, nil
}

func issuerAccepted(issuer string) bool {
	for _, iss := range acceptedIssuers {
		if issuer == iss {
			return true
		}
	}
	return false
}

func invalidToken(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, auth.ErrInvalidIdentityToken.Message).
		WithTextCode(auth.ErrInvalidIdentityToken.TextCode).
		WithCode(auth.ErrInvalidIdentityToken.Code)
}

var _ auth.IdentityTokenVerifier = (*Verifier)(nil)
