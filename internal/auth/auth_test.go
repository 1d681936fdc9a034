// internal/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	Init()

	token, err := CreateJWT("ALICE")
	require.NoError(t, err)

	subject, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "ALICE", subject)
}

func TestMangledTokenIsRejected(t *testing.T) {
	Init()

	token, err := CreateJWT("ALICE")
	require.NoError(t, err)

	_, err = AuthenticateJWT(token + "x")
	assert.Error(t, err)

	_, err = AuthenticateJWT("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotContains(t, hash, "hunter2")

	match, err := VerifyPassword("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

// argon2 panics on zero parallelism, so the CPU-derived thread count
// must stay at 1 even on a single-core host.
func TestHashParamsUsableOnSmallHosts(t *testing.T) {
	p := defaultHashParams()
	assert.GreaterOrEqual(t, p.threads, uint8(1))
}

func TestCorruptHashFormat(t *testing.T) {
	_, err := VerifyPassword("hunter2", "$argon2id$bogus")
	assert.Error(t, err)
}
