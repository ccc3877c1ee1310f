package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the claim bundle embedded in application access tokens.
// Subject carries the account email, SessionLogID points at the session
// log row that keeps the token revocable.
type JWTClaims struct {
	jwt.RegisteredClaims
	SessionLogID string `json:"log_id,omitempty"`
	Roles        []Role `json:"roles,omitempty"`
}

// Subject returns the subject claim (the account email)
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// HasRole checks if the claim set carries a specific role
func (c *JWTClaims) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the claim set intersects the given roles.
// An empty argument list always matches.
func (c *JWTClaims) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	return RolesIntersect(c.Roles, roles)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
