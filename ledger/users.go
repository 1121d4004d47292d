package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		DisplayName  string    `json:"name,omitempty"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}

	NewUser struct {
		Email        string
		PasswordHash string
		DisplayName  string
	}
)

// FindUserByEmail returns UserNotFound when no account uses email.
// Emails are compared exactly as stored.
func (l *Ledger) FindUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	var name sql.NullString
	err := l.db.QueryRowContext(ctx, l.dialect.rebind(`select user_id, email, password_hash, display_name, created_at, updated_at
	from users where email = ?`), email).Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Email: email}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to lookup user %v, cause %w", email, err)
	}
	u.DisplayName = name.String
	return u, nil
}

// CreateUser inserts a new account. The unique index on email is the
// authority on duplicates: a rejected insert returns EmailTaken even when
// a concurrent registration won the race after the caller checked.
func (l *Ledger) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	now := l.timestamp()
	u := User{
		ID:           uuid.NewString(),
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		DisplayName:  nu.DisplayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	name := sql.NullString{String: nu.DisplayName, Valid: nu.DisplayName != ""}
	_, err := l.db.ExecContext(ctx, l.dialect.rebind(`insert into users(user_id, email, password_hash, display_name, created_at, updated_at)
	values (?, ?, ?, ?, ?, ?)`), u.ID, u.Email, u.PasswordHash, name, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return User{}, EmailTaken{Email: nu.Email}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to create user %v, cause %w", nu.Email, err)
	}
	return u, nil
}
