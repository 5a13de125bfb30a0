package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-repair-service/internal/domain"
)

func testAdmin() *domain.Admin {
	return &domain.Admin{
		ID:    "admin-1",
		Email: "admin@example.com",
		Role:  domain.AdminRoleAgent,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)

	token, err := manager.Issue(testAdmin())
	require.NoError(t, err)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, domain.AdminRoleAgent, claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret", time.Hour).Issue(testAdmin())
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	token, err := NewTokenManager("secret", -time.Minute).Issue(testAdmin())
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).Parse("not.a.token")
	assert.Error(t, err)
}

func TestHasher(t *testing.T) {
	hasher := NewHasher(4)

	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, hasher.Compare(hash, "s3cret-pass"))
	assert.False(t, hasher.Compare(hash, "wrong"))
}
