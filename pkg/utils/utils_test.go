package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "procura-api")
	userID, tenantID := uuid.New(), uuid.New()

	token, err := m.GenerateAccessToken(JWTClaims{
		UserID:      userID,
		TenantID:    tenantID,
		Permissions: []string{"manage-stock"},
	}, time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, []string{"manage-stock"}, claims.Permissions)
}

func TestJWTManager_RejectsForeignSecretAndIssuer(t *testing.T) {
	issuer := NewJWTManager("other", "procura-api")
	token, err := issuer.GenerateAccessToken(JWTClaims{UserID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", "procura-api").ValidateAccessToken(token)
	assert.Error(t, err)

	wrongIssuer := NewJWTManager("secret", "someone-else")
	token, err = wrongIssuer.GenerateAccessToken(JWTClaims{UserID: uuid.New()}, time.Hour)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", "procura-api").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", "procura-api")
	token, err := m.GenerateAccessToken(JWTClaims{UserID: uuid.New()}, -time.Minute)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "steel-bolts-m8", Slugify("  Steel Bolts (M8) "))
	assert.Equal(t, "a-b", Slugify("a -- b"))
}

func TestGenerateReferenceNo(t *testing.T) {
	ref := GenerateReferenceNo("PO")
	assert.True(t, strings.HasPrefix(ref, "PO-"))
	assert.Len(t, ref, len("PO-")+8)
	assert.Equal(t, strings.ToUpper(ref), ref)
}
