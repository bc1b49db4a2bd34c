package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcars/backend/internal/model"
)

func testUser() *model.User {
	u := &model.User{
		BaseEntity: model.NewBaseEntity(),
		Email:      "admin@mrcars.example",
		Role:       model.RoleAdmin,
	}
	return u
}

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	m, err := NewTokenManager("test-secret-at-least-32-chars-long!!", time.Hour)
	require.NoError(t, err)

	user := testUser()
	token, err := m.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	m, err := NewTokenManager("test-secret-at-least-32-chars-long!!", -time.Minute)
	require.NoError(t, err)

	token, err := m.Generate(testUser())
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenManager("secret-one-that-is-long-enough-here!", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenManager("secret-two-that-is-long-enough-here!", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Generate(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m, err := NewTokenManager("test-secret-at-least-32-chars-long!!", time.Hour)
	require.NoError(t, err)

	_, err = m.Validate("not.a.token")
	assert.Error(t, err)
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidSecret)
}
