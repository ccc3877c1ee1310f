package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used when none is configured
var DefaultHashCost = passwordHashCost()

// Hasher hashes passwords with a configurable bcrypt work factor
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher, clamping the cost to bcrypt's valid range
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultHashCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Hash will generate a password hash
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(out), err
}

// Compare will validate the given cleartext password matches the hashed
// password. Malformed digests report a mismatch, they never panic.
func (h *Hasher) Compare(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}

var _ PasswordHasher = (*Hasher)(nil)

// HashPassword will generate a password hash using DefaultHashCost
func HashPassword(password string) (string, error) {
	return NewHasher(DefaultHashCost).Hash(password)
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// RandomPasswordHash is a temporary password used when an account is
// provisioned on a user's behalf
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
