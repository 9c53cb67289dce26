package server

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/sharein/sharein/internal/middleware"
	"github.com/sharein/sharein/internal/service"
)

type createExpenseRequest struct {
	Cost         decimal.Decimal `json:"cost"`
	Description  string          `json:"description"`
	SplitEqually bool            `json:"splitEqually"`
	GroupID      string          `json:"groupId"`
}

// updateExpenseRequest uses pointers so omitted fields keep their prior
// values.
type updateExpenseRequest struct {
	Cost         *decimal.Decimal `json:"cost"`
	Description  *string          `json:"description"`
	SplitEqually *bool            `json:"splitEqually"`
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.Create(r.Context(), middleware.GetUserID(r.Context()), service.CreateExpenseInput{
		Cost:         req.Cost,
		Description:  req.Description,
		SplitEqually: req.SplitEqually,
		GroupID:      req.GroupID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

func (s *Server) getExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.Update(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), service.UpdateExpenseInput{
		Cost:         req.Cost,
		Description:  req.Description,
		SplitEqually: req.SplitEqually,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": "expense has been deleted",
		"expense": expense,
	})
}
