// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/samber/oops"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/pkg/errutil"
)

// Request body bounds, enforced at the boundary.
const (
	minPasswordLength = 8
	maxPasswordLength = 32
	minUsernameLength = 3
	maxUsernameLength = 32
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type registerResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type currentUserResponse struct {
	UserID string `json:"userId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := validateRegister(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	credential, err := s.service.Register(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		s.countRegistration("failure")
		s.writeDomainError(w, err)
		return
	}

	s.countRegistration("success")
	writeJSON(w, http.StatusCreated, registerResponse{
		ID:     credential.ID.String(),
		Email:  credential.Email,
		UserID: credential.UserID,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	session, err := s.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.countLogin("failure")
		s.writeDomainError(w, err)
		return
	}

	s.countLogin("success")
	writeJSON(w, http.StatusCreated, loginResponse{
		Token:  session.Token,
		UserID: session.UserID,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Logout(r.Context(), r.Header.Get("Authorization")); err != nil {
		s.writeDomainError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.SessionsRevokedTotal.Inc()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, err := s.service.CurrentUser(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, currentUserResponse{UserID: userID})
}

// writeDomainError maps a domain error to a protocol response. Unrecognized
// errors become an opaque 500 and are logged with full context.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already exists"})
	case errors.Is(err, auth.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "username already used"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
	case errors.Is(err, auth.ErrSessionNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session not found"})
	case errors.Is(err, auth.ErrProvisioningUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "user provisioning unavailable"})
	default:
		errutil.LogError(s.logger, "request failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func validateRegister(req registerRequest) error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return oops.Errorf("email must be a valid address")
	}
	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		return oops.Errorf("password must be %d-%d characters", minPasswordLength, maxPasswordLength)
	}
	if len(req.Username) < minUsernameLength || len(req.Username) > maxUsernameLength {
		return oops.Errorf("username must be %d-%d characters", minUsernameLength, maxUsernameLength)
	}
	return nil
}

func (s *Server) countRegistration(status string) {
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Server) countLogin(status string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error is acceptable, client may disconnect
	_ = json.NewEncoder(w).Encode(v)
}
