package session

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	c := NewCodec([]byte("super-secret"))
	tk, err := c.Issue(Identity{UserID: "u1", Email: "bob@example.com"})
	require.NoError(t, err)

	claims, err := c.Parse(tk)
	require.NoError(t, err)
	require.Equal(t, Identity{UserID: "u1", Email: "bob@example.com"}, claims.Identity())
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParseExpired(t *testing.T) {
	c := NewCodec([]byte("secret"))
	c.now = func() time.Time { return time.Now().Add(-DefaultTTL - time.Minute) }
	tk, err := c.Issue(Identity{UserID: "u1"})
	require.NoError(t, err)

	c.now = time.Now
	claims, err := c.Parse(tk)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Nil(t, claims)
}

func TestParseTampered(t *testing.T) {
	c := NewCodec([]byte("secret"))
	tk, err := c.Issue(Identity{UserID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	parts := strings.Split(tk, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(sig)}, ".")
	_, err = c.Parse(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongSecret(t *testing.T) {
	tk, err := NewCodec([]byte("right")).Issue(Identity{UserID: "u1"})
	require.NoError(t, err)
	_, err = NewCodec([]byte("wrong")).Parse(tk)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	secret := []byte("secret")
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = NewCodec(secret).Parse(tk)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewCodec(secret).Parse(none)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRequiresExpiry(t *testing.T) {
	secret := []byte("secret")
	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ID: "id"},
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = NewCodec(secret).Parse(tk)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseMalformed(t *testing.T) {
	c := NewCodec([]byte("k"))
	for _, tk := range []string{"", "not.a.jwt", "abc"} {
		_, err := c.Parse(tk)
		if err != ErrInvalidToken {
			t.Errorf("Parse(%q) should return ErrInvalidToken, got %v", tk, err)
		}
	}
}

func TestIssueWithoutUser(t *testing.T) {
	_, err := NewCodec([]byte("k")).Issue(Identity{Email: "a@b.c"})
	require.Error(t, err)
}
