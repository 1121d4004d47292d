package api

import (
	"errors"
	"net/http"

	"github.com/andrebq/abacus/ledger"
	"github.com/andrebq/abacus/password"
	"github.com/andrebq/abacus/session"
	"github.com/julienschmidt/httprouter"
)

type (
	registerRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	authResponse struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
)

func (s *server) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) *apiError {
	var body registerRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	if body.Email == "" || body.Password == "" {
		return validationError("Email and password are required")
	}
	ctx := r.Context()
	_, err := s.store.FindUserByEmail(ctx, body.Email)
	if err == nil {
		return conflictError("User already exists")
	} else if !errors.As(err, new(ledger.UserNotFound)) {
		return internalError(err)
	}
	hash, err := s.hasher.Hash(body.Password)
	if errors.As(err, new(password.PasswordTooLong)) {
		return validationError("Password must be at most 72 bytes")
	} else if err != nil {
		return internalError(err)
	}
	user, err := s.store.CreateUser(ctx, ledger.NewUser{
		Email:        body.Email,
		PasswordHash: hash,
		DisplayName:  body.Name,
	})
	if errors.As(err, new(ledger.EmailTaken)) {
		// lost the race against a concurrent registration
		return conflictError("User already exists")
	} else if err != nil {
		return internalError(err)
	}
	if apiErr := s.startSession(w, user); apiErr != nil {
		return apiErr
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: "User created successfully", UserID: user.ID})
	return nil
}

func (s *server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) *apiError {
	var body loginRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	if body.Email == "" || body.Password == "" {
		return validationError("Email and password are required")
	}
	user, err := s.store.FindUserByEmail(r.Context(), body.Email)
	if errors.As(err, new(ledger.UserNotFound)) {
		s.hasher.Verify(body.Password, s.dummyHash)
		return authError("Invalid credentials")
	} else if err != nil {
		return internalError(err)
	}
	if !s.hasher.Verify(body.Password, user.PasswordHash) {
		return authError("Invalid credentials")
	}
	if apiErr := s.startSession(w, user); apiErr != nil {
		return apiErr
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", UserID: user.ID})
	return nil
}

func (s *server) logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) *apiError {
	if err := s.sessions.Revoke(r); err != nil {
		return internalError(err)
	}
	s.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	return nil
}

func (s *server) me(w http.ResponseWriter, r *http.Request, claims *session.Claims) *apiError {
	writeJSON(w, http.StatusOK, map[string]string{"userId": claims.UserID, "email": claims.Email})
	return nil
}

func (s *server) startSession(w http.ResponseWriter, user ledger.User) *apiError {
	token, err := s.sessions.Codec().Issue(session.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return internalError(err)
	}
	s.sessions.SetCookie(w, token)
	return nil
}
