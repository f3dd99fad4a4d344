package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/GazaBreda/PayMe/internal/auth"
	"github.com/GazaBreda/PayMe/internal/events"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := s.tokens.GenerateSession(user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Account created", "user_id", user.ID)
	resp := authResponse{Token: token}
	resp.User.ID = user.ID
	resp.User.Email = user.Email
	respondJSON(w, http.StatusCreated, resp)
}

// handleLogin verifies credentials, warms the session cache so the
// first data request after sign-in is already loaded, and returns a
// bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := s.sessions.Get(r.Context(), user.ID); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := s.tokens.GenerateSession(user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "User signed in", "user_id", user.ID)
	resp := authResponse{Token: token}
	resp.User.ID = user.ID
	resp.User.Email = user.Email
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.sessions.Drop(uid)
	slog.InfoContext(r.Context(), "User signed out", "user_id", uid)
	respondJSON(w, http.StatusNoContent, nil)
}

// handleResetRequest issues a short-lived reset token. The response is
// identical whether or not the address is registered, so the endpoint
// cannot be used to probe for accounts. Delivery is out of band; the
// token is returned directly for the caller's mailer to send.
func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	resp := map[string]string{"status": "ok"}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err == nil {
		token, tokenErr := s.tokens.GenerateReset(user)
		if tokenErr != nil {
			respondError(w, r, tokenErr)
			return
		}
		resp["reset_token"] = token
		slog.InfoContext(r.Context(), "Password reset requested", "user_id", user.ID)
		if s.publisher != nil {
			event := events.NewChangeEvent(events.DomainUsers, events.OpResetRequested, user.ID, user.ID)
			if err := s.publisher.PublishChange(r.Context(), event); err != nil {
				slog.ErrorContext(r.Context(), "Failed to publish reset event", "user_id", user.ID, "error", err)
			}
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	claims, err := s.tokens.Validate(req.Token, auth.PurposeReset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.authenticator.ResetPassword(r.Context(), claims.UserID, req.NewPassword); err != nil {
		respondError(w, r, err)
		return
	}

	// Existing cached state may belong to the pre-reset session.
	s.sessions.Drop(claims.UserID)

	slog.InfoContext(r.Context(), "Password reset completed", "user_id", claims.UserID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
