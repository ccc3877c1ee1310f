package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareUserDefaults(t *testing.T) {
	t.Run("fills every default", func(t *testing.T) {
		record := &User{Email: "ada@example.com"}
		prepareUserDefaults(record)

		assert.Equal(t, []Role{RoleClient}, record.Roles)
		assert.Equal(t, LocaleFR, record.Locale)
		assert.Equal(t, VerificationNotSubmitted, record.VerificationStatus)
		assert.NotEqual(t, uuid.Nil, record.ID)
	})

	t.Run("keeps provided values", func(t *testing.T) {
		id := uuid.New()
		record := &User{
			ID:                 id,
			Email:              "ada@example.com",
			Roles:              []Role{RoleAdmin},
			Locale:             LocaleEnUS,
			VerificationStatus: VerificationVerified,
		}
		prepareUserDefaults(record)

		assert.Equal(t, id, record.ID)
		assert.Equal(t, []Role{RoleAdmin}, record.Roles)
		assert.Equal(t, LocaleEnUS, record.Locale)
		assert.Equal(t, VerificationVerified, record.VerificationStatus)
	})

	t.Run("nil record is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() { prepareUserDefaults(nil) })
	})
}

func TestUserSanitized(t *testing.T) {
	user := &User{Email: "ada@example.com", PasswordHash: "secret-hash"}

	clean := user.Sanitized()
	require.NotNil(t, clean)
	assert.Empty(t, clean.PasswordHash)
	// the original is untouched
	assert.Equal(t, "secret-hash", user.PasswordHash)

	var nilUser *User
	assert.Nil(t, nilUser.Sanitized())
}

func TestSessionLogRevoked(t *testing.T) {
	record := &SessionLog{}
	assert.False(t, record.Revoked())

	now := record.LoginAt
	record.LogoutAt = &now
	assert.True(t, record.Revoked())

	var nilLog *SessionLog
	assert.False(t, nilLog.Revoked())
}
