package ledger

import "fmt"

type (
	UserNotFound struct {
		Email string
	}

	EmailTaken struct {
		Email string
	}

	InvalidLimit struct {
		Limit int
	}

	UnknownDialect struct {
		Driver string
	}
)

func (u UserNotFound) Error() string {
	return fmt.Sprintf("user %v not found", u.Email)
}

func (e EmailTaken) Error() string {
	return fmt.Sprintf("email %v is already registered", e.Email)
}

func (i InvalidLimit) Error() string {
	return fmt.Sprintf("limit must be between 1 and %v, got %v", MaxListLimit, i.Limit)
}

func (u UnknownDialect) Error() string {
	return fmt.Sprintf("driver %q is not supported, use sqlite3 or pgx", u.Driver)
}
