package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GazaBreda/PayMe/internal/auth"
	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// respondError maps the error taxonomy onto HTTP statuses: validation
// failures are 400, credential and token problems 401, missing
// documents 404, and everything else is a persistence failure reported
// as 502 without leaking store internals.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	case isAuthError(err):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Kind: "auth"})
	case errors.Is(err, storage.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Kind: "not_found"})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "persistence failure", Kind: "persistence"})
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrEmptyName,
		core.ErrInvalidAmount,
		core.ErrNegativeSalary,
		core.ErrEmptyFrequency,
		core.ErrEmptyDueDate,
		core.ErrEmptyQuantity,
		core.ErrEmptyItem,
		core.ErrInvalidThemeMode,
		core.ErrInvalidDate,
		auth.ErrWeakPassword,
		auth.ErrInvalidEmail,
		auth.ErrEmailExists,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isAuthError(err error) bool {
	for _, target := range []error{
		auth.ErrInvalidCredentials,
		auth.ErrInvalidToken,
		auth.ErrMissingToken,
		auth.ErrWrongPurpose,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(errBadRequestBody, err)
	}
	return nil
}

var errBadRequestBody = errors.New("invalid request body")

func badRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Kind: "validation"})
}
