package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GazaBreda/PayMe/internal/core"
)

type incomeResponse struct {
	Salary    decimal.Decimal   `json:"salary"`
	Frequency core.PayFrequency `json:"frequency"`
	Saved     bool              `json:"saved"`
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	settings, saved := sess.Income.Get()
	respondJSON(w, http.StatusOK, incomeResponse{
		Salary:    settings.Salary,
		Frequency: settings.Frequency,
		Saved:     saved,
	})
}

func (s *Server) handleSaveIncome(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Salary    decimal.Decimal `json:"salary"`
		Frequency string          `json:"frequency"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	settings := core.IncomeSettings{
		Salary:    req.Salary,
		Frequency: core.PayFrequency(req.Frequency),
	}
	if err := sess.Income.Save(r.Context(), settings); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, incomeResponse{
		Salary:    settings.Salary,
		Frequency: settings.Frequency,
		Saved:     true,
	})
}

func (s *Server) handleMonthlyIncome(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	monthly, err := sess.Income.Monthly()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]decimal.Decimal{"monthly": monthly})
}
