package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

type indexValueRequest struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Value string `json:"value"`
}

func indexValueFromRequest(kind core.IndexKind, req indexValueRequest) (core.IndexValue, error) {
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return core.IndexValue{}, core.ErrInvalidAmount
	}
	v := core.IndexValue{
		Kind:   kind,
		Period: core.Period{Year: req.Year, Month: req.Month},
		Value:  value,
	}
	return v, v.Validate()
}

func (s *Server) indexListHandler(kind core.IndexKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := s.indexValues.List(r.Context(), kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if values == nil {
			values = []core.IndexValue{}
		}
		writeJSON(w, http.StatusOK, values)
	}
}

func (s *Server) indexCreateHandler(kind core.IndexKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req indexValueRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		v, err := indexValueFromRequest(kind, req)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		created, err := s.indexValues.Create(r.Context(), v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) indexUpdateHandler(kind core.IndexKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		var req struct {
			Value string `json:"value"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		value, err := decimal.NewFromString(req.Value)
		if err != nil || !value.IsPositive() {
			writeError(w, r, core.ErrInvalidAmount)
			return
		}
		updated, err := s.indexValues.Update(r.Context(), core.IndexValue{ID: id, Kind: kind, Value: value})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) indexDeleteHandler(kind core.IndexKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		if err := s.indexValues.Delete(r.Context(), kind, id); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
