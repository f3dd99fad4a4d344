package http

import (
	"net/http"

	"github.com/GazaBreda/PayMe/internal/core"
)

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Theme.Get())
}

func (s *Server) handleSaveTheme(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Mode string `json:"mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	theme := core.Theme{Mode: core.ThemeMode(req.Mode)}
	if err := sess.Theme.Save(r.Context(), theme); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, theme)
}
