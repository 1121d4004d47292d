package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := WithCost(bcrypt.MinCost)
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)
	require.True(t, h.Verify("correct horse", hash))
	require.False(t, h.Verify("wrong horse", hash))
}

func TestSaltIsRandom(t *testing.T) {
	h := WithCost(bcrypt.MinCost)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestDefaultCost(t *testing.T) {
	hash, err := NewHasher().Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, DefaultCost, cost)
}

func TestMalformedHash(t *testing.T) {
	h := WithCost(bcrypt.MinCost)
	for _, hash := range []string{"", "not-a-hash", "$2a$10$short"} {
		if h.Verify("pw", hash) {
			t.Errorf("Verify should reject malformed hash %q", hash)
		}
	}
}

func TestTooLong(t *testing.T) {
	_, err := WithCost(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, PasswordTooLong{Size: 73})
}
