package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	type testCase struct {
		driver  string
		dialect Dialect
	}
	for _, tc := range []testCase{
		{"", SQLite},
		{"sqlite3", SQLite},
		{"pgx", Postgres},
		{"postgres", Postgres},
	} {
		d, err := ParseDialect(tc.driver)
		if err != nil {
			t.Errorf("ParseDialect(%q) failed with %v", tc.driver, err)
		} else if d != tc.dialect {
			t.Errorf("ParseDialect(%q) should return %v but got %v", tc.driver, tc.dialect, d)
		}
	}
	_, err := ParseDialect("mysql")
	require.ErrorIs(t, err, UnknownDialect{Driver: "mysql"})
}

func TestRebind(t *testing.T) {
	q := `select a from t where b = ? and c = ?`
	require.Equal(t, q, SQLite.rebind(q))
	require.Equal(t, `select a from t where b = $1 and c = $2`, Postgres.rebind(q))
}

func newPostgresMock(t *testing.T) (*Ledger, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	l := FromDB(db, Postgres)
	l.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return l, mock
}

func TestPostgresUniqueViolation(t *testing.T) {
	l, mock := newPostgresMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`insert into users(user_id, email, password_hash, display_name, created_at, updated_at)`) + `\s+` + regexp.QuoteMeta(`values ($1, $2, $3, $4, $5, $6)`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uidx_users_email"})

	_, err := l.CreateUser(context.Background(), NewUser{Email: "bob@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, EmailTaken{Email: "bob@example.com"})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOtherErrors(t *testing.T) {
	l, mock := newPostgresMock(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(`insert into users`).WillReturnError(boom)

	_, err := l.CreateUser(context.Background(), NewUser{Email: "bob@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, boom)
	require.False(t, errors.As(err, new(EmailTaken)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRecent(t *testing.T) {
	l, mock := newPostgresMock(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"calculation_id", "user_id", "expression", "result", "created_at"}).
		AddRow("c2", "u1", "2+2", "4", now.Add(time.Second)).
		AddRow("c1", "u1", "1+1", "2", now)
	mock.ExpectQuery(`(?s)select calculation_id.*where user_id = \$1.*order by created_at desc, seq desc.*limit \$2`).
		WithArgs("u1", DefaultListLimit).
		WillReturnRows(rows)

	got, err := l.ListRecentCalculations(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "c2", got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindUserNotFound(t *testing.T) {
	l, mock := newPostgresMock(t)
	mock.ExpectQuery(`(?s)select user_id.*from users where email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "password_hash", "display_name", "created_at", "updated_at"}))

	_, err := l.FindUserByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, UserNotFound{Email: "ghost@example.com"})
	require.NoError(t, mock.ExpectationsWereMet())
}
