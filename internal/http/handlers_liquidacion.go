package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

type liquidacionRequest struct {
	PropertyID int64 `json:"property_id"`
	Year       int   `json:"year"`
	Month      int   `json:"month"`
}

func (req liquidacionRequest) target() (int64, core.Period, error) {
	if req.PropertyID <= 0 {
		return 0, core.Period{}, errors.New("missing or invalid property_id")
	}
	p := core.Period{Year: req.Year, Month: req.Month}
	if err := p.Validate(); err != nil {
		return 0, core.Period{}, err
	}
	return req.PropertyID, p, nil
}

// handleCalculateLiquidacion creates the period's allocations.
func (s *Server) handleCalculateLiquidacion(w http.ResponseWriter, r *http.Request) {
	var req liquidacionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	propertyID, p, err := req.target()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	allocs, err := s.liquidaciones.Calculate(r.Context(), identity(r).AdminID, propertyID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, allocs)
}

// handleListAllocations lists the period's allocations.
func (s *Server) handleListAllocations(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(r.URL.Query().Get("property_id"), 10, 64)
	if err != nil || propertyID <= 0 {
		writeBadRequest(w, "missing or invalid property_id")
		return
	}
	p, err := periodFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	allocs, err := s.liquidaciones.Allocations(r.Context(), identity(r).AdminID, propertyID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if allocs == nil {
		allocs = []core.ExpenseAllocation{}
	}
	writeJSON(w, http.StatusOK, allocs)
}

// handleDeleteLiquidacion removes the period's allocations so late
// expenses can be settled with a recalculation.
func (s *Server) handleDeleteLiquidacion(w http.ResponseWriter, r *http.Request) {
	var req liquidacionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	propertyID, p, err := req.target()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.liquidaciones.Delete(r.Context(), identity(r).AdminID, propertyID, p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleSendReceipts builds and enqueues the period's receipts.
func (s *Server) handleSendReceipts(w http.ResponseWriter, r *http.Request) {
	var req liquidacionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	propertyID, p, err := req.target()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	receipts, err := s.liquidaciones.SendReceipts(r.Context(), identity(r).AdminID, propertyID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, receipts)
}

// handleListReceipts lists receipts with their dispatch status.
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(r.URL.Query().Get("property_id"), 10, 64)
	if err != nil || propertyID <= 0 {
		writeBadRequest(w, "missing or invalid property_id")
		return
	}
	p, err := periodFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	receipts, err := s.liquidaciones.Receipts(r.Context(), identity(r).AdminID, propertyID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if receipts == nil {
		receipts = []core.Receipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}
