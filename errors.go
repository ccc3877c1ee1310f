package auth

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrInvalidCredentials is returned when sign-in fails. The message is
// deliberately generic so the response never reveals which field was wrong.
var ErrInvalidCredentials = errors.New("incorrect email or password", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrAccountDisabled is returned when credentials match a deactivated account
var ErrAccountDisabled = errors.New("user account was deactivated", errors.CategoryAuthz).
	WithTextCode("ACCOUNT_DISABLED").
	WithCode(errors.CodeForbidden)

// ErrDuplicateAccount is returned when the registration email is taken
var ErrDuplicateAccount = errors.New("an account with this email already exists", errors.CategoryConflict).
	WithTextCode("DUPLICATE_ACCOUNT").
	WithCode(errors.CodeConflict)

// ErrUnauthenticated covers missing, invalid, expired, and revoked tokens
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode("UNAUTHENTICATED").
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when an authenticated user lacks a required role
var ErrForbidden = errors.New("insufficient role for this resource", errors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)

// ErrInvalidIdentityToken is returned when a federated identity token
// cannot be verified or carries an empty payload
var ErrInvalidIdentityToken = errors.New("could not process identity token payload", errors.CategoryValidation).
	WithTextCode("INVALID_IDENTITY_TOKEN").
	WithCode(http.StatusUnprocessableEntity)

// ErrTokenExpired is returned for tokens past their expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail signature or shape checks
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the internal password comparison failure
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("refusing to hash an empty string", errors.CategoryBadInput).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// ErrSessionRevoked marks a token whose session log was closed by sign-out.
// It collapses to ErrUnauthenticated at the guard boundary.
var ErrSessionRevoked = errors.New("session has been revoked", errors.CategoryAuth).
	WithTextCode("SESSION_REVOKED").
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) || strings.Contains(err.Error(), "token is expired")
}

// IsInvalidIdentityTokenError will check for rejected federated tokens
func IsInvalidIdentityTokenError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidIdentityToken) {
		return true
	}
	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.TextCode == ErrInvalidIdentityToken.TextCode
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
