package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("test-secret", "0b0e4c8e-8d3f-4a53-9df2-1b2f6a0c9e11", "Kim", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "0b0e4c8e-8d3f-4a53-9df2-1b2f6a0c9e11", claims.ActorID())
	assert.Equal(t, "Kim", claims.Name)
}

func TestParseTokenRejects(t *testing.T) {
	token, err := GenerateToken("test-secret", "actor", "", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err, "wrong secret")

	expired, err := GenerateToken("test-secret", "actor", "", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("test-secret", expired)
	assert.Error(t, err, "expired")

	_, err = ParseToken("test-secret", "not-a-token")
	assert.Error(t, err)
}

func TestGenerateTokenRequiresActor(t *testing.T) {
	_, err := GenerateToken("test-secret", " ", "", time.Hour)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	token, ok = BearerToken("bearer xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", token)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("")
	assert.False(t, ok)
}
