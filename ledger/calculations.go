package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

type (
	Calculation struct {
		ID         string    `json:"id"`
		UserID     string    `json:"userId"`
		Expression string    `json:"expression"`
		Result     string    `json:"result"`
		CreatedAt  time.Time `json:"createdAt"`
	}
)

// CreateCalculation stores a calculation under userID, which must come
// from an authenticated session.
func (l *Ledger) CreateCalculation(ctx context.Context, userID, expression, result string) (Calculation, error) {
	c := Calculation{
		ID:         uuid.NewString(),
		UserID:     userID,
		Expression: expression,
		Result:     result,
		CreatedAt:  l.timestamp(),
	}
	_, err := l.db.ExecContext(ctx, l.dialect.rebind(`insert into calculations(calculation_id, user_id, expression, result, created_at)
	values (?, ?, ?, ?, ?)`), c.ID, c.UserID, c.Expression, c.Result, c.CreatedAt)
	if err != nil {
		return Calculation{}, fmt.Errorf("unable to store calculation for user %v, cause %w", userID, err)
	}
	return c, nil
}

// ListRecentCalculations returns up to limit calculations of userID, newest
// first. Calculations created within the same instant come back in reverse
// insertion order. A zero limit means DefaultListLimit.
func (l *Ledger) ListRecentCalculations(ctx context.Context, userID string, limit int) ([]Calculation, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return nil, InvalidLimit{Limit: limit}
	}
	rows, err := l.db.QueryContext(ctx, l.dialect.rebind(`select calculation_id, user_id, expression, result, created_at
	from calculations
	where user_id = ?
	order by created_at desc, seq desc
	limit ?`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to list calculations for user %v, cause %w", userID, err)
	}
	defer rows.Close()
	out := make([]Calculation, 0, limit)
	for rows.Next() {
		var c Calculation
		err = rows.Scan(&c.ID, &c.UserID, &c.Expression, &c.Result, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan calculation, cause %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to list calculations for user %v, cause %w", userID, err)
	}
	return out, nil
}
