// Package api exposes accounts and calculation history over HTTP.
//
// Every response is a single JSON document. Failures always look like
// {"error": "..."} and never carry internal details.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/andrebq/abacus/ledger"
	"github.com/andrebq/abacus/session"
	"github.com/julienschmidt/httprouter"
)

const (
	maxBodySize = 64 * 1024
)

type (
	Credentials interface {
		FindUserByEmail(ctx context.Context, email string) (ledger.User, error)
		CreateUser(ctx context.Context, nu ledger.NewUser) (ledger.User, error)
	}

	Calculations interface {
		CreateCalculation(ctx context.Context, userID, expression, result string) (ledger.Calculation, error)
		ListRecentCalculations(ctx context.Context, userID string, limit int) ([]ledger.Calculation, error)
	}

	Store interface {
		Credentials
		Calculations
		Ping(ctx context.Context) error
	}

	Hasher interface {
		Hash(plain string) (string, error)
		Verify(plain, hash string) bool
	}

	server struct {
		store     Store
		hasher    Hasher
		sessions  *session.Extractor
		dummyHash string
	}

	handlerFunc       func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) *apiError
	authedHandlerFunc func(w http.ResponseWriter, r *http.Request, claims *session.Claims) *apiError
)

// AsHandler returns the router with every endpoint mounted, both under
// /api and under the short aliases.
func AsHandler(ctx context.Context, store Store, hasher Hasher, sessions *session.Extractor) (http.Handler, error) {
	if store == nil || hasher == nil || sessions == nil {
		return nil, errors.New("api: store, hasher and sessions are required")
	}
	// used to spend the same time on unknown emails as on wrong passwords
	dummy, err := hasher.Hash("abacus-timing-equalizer")
	if err != nil {
		return nil, err
	}
	s := &server{store: store, hasher: hasher, sessions: sessions, dummyHash: dummy}

	router := httprouter.New()
	for _, prefix := range []string{"/api/auth", ""} {
		router.POST(prefix+"/register", s.handle(s.register))
		router.POST(prefix+"/login", s.handle(s.login))
		router.POST(prefix+"/logout", s.handle(s.logout))
		router.GET(prefix+"/me", s.handle(s.authenticated(s.me)))
	}
	for _, prefix := range []string{"/api", ""} {
		router.POST(prefix+"/calculate", s.handle(s.authenticated(s.createCalculation)))
		router.GET(prefix+"/calculate", s.handle(s.authenticated(s.listCalculations)))
		router.POST(prefix+"/evaluate", s.handle(s.authenticated(s.evaluate)))
	}
	router.GET("/healthz", s.handle(s.health))
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		writeError(w, r, internalError(errors.New("panic while serving request")))
	}
	return router, nil
}

func (s *server) handle(fn handlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if err := fn(w, r, ps); err != nil {
			writeError(w, r, err)
		}
	}
}

// authenticated rejects anonymous requests, a missing cookie and an
// invalid one get the very same answer.
func (s *server) authenticated(fn authedHandlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) *apiError {
		claims, ok := s.sessions.FromRequest(r)
		if !ok {
			return authError("Unauthorized")
		}
		r = r.WithContext(session.WithClaims(r.Context(), claims))
		return fn(w, r, claims)
	}
}

func (s *server) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) *apiError {
	if err := s.store.Ping(r.Context()); err != nil {
		return &apiError{status: http.StatusServiceUnavailable, message: "Database unavailable", cause: err}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	return nil
}

func decodeBody(r *http.Request, out interface{}) *apiError {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(out); err != nil {
		return validationError("Invalid request body")
	}
	return nil
}
