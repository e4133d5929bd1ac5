package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)

	assert.True(t, Verify("s3cret-pass", hash))
	assert.False(t, Verify("wrong", hash))
	assert.False(t, Verify("s3cret-pass", "plain-text-in-db"))
}

func TestVerifyMissing(t *testing.T) {
	assert.False(t, VerifyMissing("anything"))
}

func TestIsHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, IsHash(string(hash)))
	assert.False(t, IsHash("plain-text-in-db"))
	assert.False(t, IsHash(""))
	assert.False(t, IsHash("$2a$not-really"))
}
