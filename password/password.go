// Package password hashes and verifies account passwords.
//
// Plain text never leaves this package in any form other than the
// bcrypt hash, and nothing here logs it.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = 10
)

type (
	Hasher struct {
		cost int
	}

	PasswordTooLong struct {
		Size int
	}
)

func (p PasswordTooLong) Error() string {
	return fmt.Sprintf("password has %v bytes, bcrypt accepts at most 72", p.Size)
}

// NewHasher returns a hasher using DefaultCost
func NewHasher() *Hasher {
	return &Hasher{cost: DefaultCost}
}

// WithCost returns a hasher with a custom work factor, tests use
// bcrypt.MinCost to keep things fast.
func WithCost(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > 72 {
		return "", PasswordTooLong{Size: len(plain)}
	}
	buf, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("unable to hash password, cause %w", err)
	}
	return string(buf), nil
}

// Verify reports whether plain matches the stored hash.
// A malformed hash is treated as a mismatch.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
