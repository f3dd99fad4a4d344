package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GazaBreda/PayMe/internal/core"
)

type billRequest struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   core.Date       `json:"dueDate"`
	Frequency string          `json:"frequency"`
	Priority  int             `json:"priority"`
}

func (b billRequest) toBill() core.Bill {
	return core.Bill{
		Name:      b.Name,
		Amount:    b.Amount,
		DueDate:   b.DueDate,
		Frequency: b.Frequency,
		Priority:  b.Priority,
	}
}

type billView struct {
	core.Bill
	Urgency string `json:"urgency"`
}

// handleListBills returns bills in display order: priority ascending,
// due date breaking ties. Each bill carries its urgency label computed
// against the current day.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	now := time.Now()
	bills := sess.Bills.SortedForDisplay()
	views := make([]billView, len(bills))
	for i, bill := range bills {
		views[i] = billView{Bill: bill, Urgency: core.Urgency(bill.DueDate, now)}
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	bill, err := sess.Bills.Add(r.Context(), req.toBill())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, bill)
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	bill := req.toBill()
	bill.ID = r.PathValue("id")
	updated, err := sess.Bills.Update(r.Context(), bill)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := sess.Bills.Remove(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
