// Package session issues and validates the signed tokens carried by the
// `token` cookie.
//
// Tokens are self contained: validating one never touches the database.
// The price is that a token stays valid until it expires, unless its id
// was explicitly revoked through a Denylist (see logout).
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("session: invalid token")
	ErrRevokedToken = errors.New("session: token revoked")
)

type (
	Identity struct {
		UserID string
		Email  string
	}

	Claims struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
		jwt.RegisteredClaims
	}

	Codec struct {
		secret []byte
		ttl    time.Duration
		now    func() time.Time
	}
)

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}

func NewCodec(secret []byte) *Codec {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{secret: key, ttl: DefaultTTL, now: time.Now}
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a new token for id that expires TTL from now.
func (c *Codec) Issue(id Identity) (string, error) {
	if id.UserID == "" {
		return "", errors.New("session: cannot issue a token without user id")
	}
	now := c.now()
	claims := Claims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: unable to sign token, cause %w", err)
	}
	return signed, nil
}

// Parse validates signature, algorithm and expiry in one step.
// Any failure returns ErrInvalidToken and no claims.
func (c *Codec) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
