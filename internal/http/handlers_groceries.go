package http

import (
	"net/http"
)

func (s *Server) handleListGroceries(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Groceries.Items())
}

func (s *Server) handleAddGrocery(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Quantity string `json:"quantity"`
		Unit     string `json:"unit"`
		Item     string `json:"item"`
		Category string `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	item, err := sess.Groceries.Add(r.Context(), req.Quantity, req.Unit, req.Item, req.Category)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleDeleteGrocery(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := sess.Groceries.Remove(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleClearGroceries(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := sess.Groceries.ClearAll(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
