package http

import (
	"net/http"
	"strconv"

	"github.com/franalderete7/expenzo-sub000/internal/core"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

type expenseRequest struct {
	PropertyID  int64  `json:"property_id"`
	CategoryID  int64  `json:"category_id,omitempty"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
}

func expenseFromRequest(req expenseRequest) (core.Expense, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		PropertyID:  req.PropertyID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      amount,
		Period:      core.Period{Year: req.Year, Month: req.Month},
	}
	return e, e.Validate()
}

// handleListExpenses lists a property's expenses, optionally narrowed
// to one period with year and month query parameters.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(r.URL.Query().Get("property_id"), 10, 64)
	if err != nil || propertyID <= 0 {
		writeBadRequest(w, "missing or invalid property_id")
		return
	}
	filter := storage.ExpenseFilter{PropertyID: propertyID}
	if r.URL.Query().Get("year") != "" || r.URL.Query().Get("month") != "" {
		p, err := periodFromQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.Period = p
	}

	expenses, err := s.expenses.List(r.Context(), identity(r).AdminID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	e, err := expenseFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.expenses.Create(r.Context(), identity(r).AdminID, e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	e, err := s.expenses.Get(r.Context(), identity(r).AdminID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	e, err := expenseFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e.ID = id
	updated, err := s.expenses.Update(r.Context(), identity(r).AdminID, e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.expenses.Delete(r.Context(), identity(r).AdminID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleListSummaries exposes the maintained monthly summaries. With
// year and month it returns just that period's row.
func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(r.URL.Query().Get("property_id"), 10, 64)
	if err != nil || propertyID <= 0 {
		writeBadRequest(w, "missing or invalid property_id")
		return
	}

	if r.URL.Query().Get("year") != "" || r.URL.Query().Get("month") != "" {
		p, err := periodFromQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		sum, err := s.store.GetSummary(r.Context(), identity(r).AdminID, propertyID, p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
		return
	}

	sums, err := s.store.ListSummaries(r.Context(), identity(r).AdminID, propertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sums == nil {
		sums = []core.MonthlyExpenseSummary{}
	}
	writeJSON(w, http.StatusOK, sums)
}
