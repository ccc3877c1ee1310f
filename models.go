package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is a marketplace access role
type Role = string

const (
	// RoleClient is a customer buying services
	RoleClient Role = "client"
	// RoleProvider is a service provider
	RoleProvider Role = "provider"
	// RolePartner is a business partner account
	RolePartner Role = "partner"
	// RoleSupport is a support operator
	RoleSupport Role = "support"
	// RoleAdmin is a platform administrator
	RoleAdmin Role = "admin"
)

// Locale is the user's preferred locale
type Locale = string

const (
	LocaleFR   Locale = "fr"
	LocaleEnUS Locale = "en-US"
)

// VerificationStatus tracks the KYC review state of an account
type VerificationStatus = string

const (
	VerificationNotSubmitted VerificationStatus = "Not submitted"
	VerificationSubmitted    VerificationStatus = "Submitted"
	VerificationVerified     VerificationStatus = "Verified"
	VerificationNotVerified  VerificationStatus = "Not Verified"
)

// User is the account model. PasswordHash is empty for federated-only
// accounts; IsActive gates every session issuance.
type User struct {
	bun.BaseModel      `bun:"table:users,alias:usr"`
	ID                 uuid.UUID          `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FullName           string             `bun:"fullname,notnull" json:"fullname,omitempty"`
	Email              string             `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone              string             `bun:"phone_number" json:"phone_number,omitempty"`
	Address            string             `bun:"address" json:"address,omitempty"`
	Locale             Locale             `bun:"locale,notnull" json:"locale,omitempty"`
	Roles              []Role             `bun:"roles,notnull" json:"roles,omitempty"`
	PasswordHash       string             `bun:"password_hash" json:"-"`
	IsActive           bool               `bun:"is_active,notnull" json:"is_active"`
	IsOnline           bool               `bun:"is_online,notnull" json:"is_online"`
	VerificationStatus VerificationStatus `bun:"verification_status,notnull" json:"verification_status,omitempty"`
	KYCImages          []uuid.UUID        `bun:"kyc_images" json:"kyc_images,omitempty"`
	CreatedAt          *time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt          *time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt          *time.Time         `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasAnyRole reports whether the user holds at least one of the given roles.
// An empty argument list means any authenticated user qualifies.
func (u *User) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Sanitized returns a copy safe to expose in API responses
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// SessionLog is the audit and validity record for one authenticated
// session. A token remains acceptable only while LogoutAt is null, which
// gives us server-side revocation on top of otherwise stateless tokens.
type SessionLog struct {
	bun.BaseModel `bun:"table:session_logs,alias:slog"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	LoginAt       time.Time  `bun:"login_at,notnull" json:"login_at"`
	LogoutAt      *time.Time `bun:"logout_at,nullzero" json:"logout_at,omitempty"`
}

// Revoked reports whether the session was closed by a sign-out
func (l *SessionLog) Revoked() bool {
	return l != nil && l.LogoutAt != nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if len(record.Roles) == 0 {
		record.Roles = []Role{RoleClient}
	}

	if record.Locale == "" {
		record.Locale = LocaleFR
	}

	if record.VerificationStatus == "" {
		record.VerificationStatus = VerificationNotSubmitted
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
