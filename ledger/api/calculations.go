package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrebq/abacus/calc"
	"github.com/andrebq/abacus/ledger"
	"github.com/andrebq/abacus/session"
)

type (
	calculationRequest struct {
		Expression string          `json:"expression"`
		Result     json.RawMessage `json:"result"`
	}

	evaluateRequest struct {
		Expression string `json:"expression"`
	}
)

func (s *server) createCalculation(w http.ResponseWriter, r *http.Request, claims *session.Claims) *apiError {
	var body calculationRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	result, ok := resultText(body.Result)
	if body.Expression == "" || !ok {
		return validationError("Expression and result are required")
	}
	c, err := s.store.CreateCalculation(r.Context(), claims.UserID, body.Expression, result)
	if err != nil {
		return internalError(err)
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Calculation saved",
		"calculation": c,
	})
	return nil
}

func (s *server) listCalculations(w http.ResponseWriter, r *http.Request, claims *session.Claims) *apiError {
	items, err := s.store.ListRecentCalculations(r.Context(), claims.UserID, ledger.DefaultListLimit)
	if err != nil {
		return internalError(err)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"calculations": items})
	return nil
}

func (s *server) evaluate(w http.ResponseWriter, r *http.Request, claims *session.Claims) *apiError {
	var body evaluateRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	result, err := calc.Evaluate(r.Context(), body.Expression)
	if errors.As(err, new(calc.InvalidExpression)) {
		return validationError("Invalid expression")
	} else if err != nil {
		return internalError(err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"expression": body.Expression, "result": result})
	return nil
}

// resultText accepts a JSON string or number, numbers keep their literal form.
func resultText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}
