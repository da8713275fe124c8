package http

import (
	"net/http"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

type propertyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.store.ListProperties(r.Context(), identity(r).AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if props == nil {
		props = []core.Property{}
	}
	writeJSON(w, http.StatusOK, props)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	p := core.Property{
		AdminID: identity(r).AdminID,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.store.CreateProperty(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	p, err := s.store.GetProperty(r.Context(), identity(r).AdminID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	p := core.Property{
		ID:      id,
		AdminID: identity(r).AdminID,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.store.UpdateProperty(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteProperty(r.Context(), identity(r).AdminID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type unitRequest struct {
	Label             string `json:"label"`
	Floor             int    `json:"floor"`
	ExpensePercentage string `json:"expense_percentage"`
}

func (s *Server) unitFromRequest(r *http.Request, propertyID int64, req unitRequest) (core.Unit, error) {
	pct, err := core.ParsePercentage(req.ExpensePercentage)
	if err != nil {
		return core.Unit{}, err
	}
	u := core.Unit{
		PropertyID:        propertyID,
		Label:             req.Label,
		Floor:             req.Floor,
		ExpensePercentage: pct,
	}
	return u, u.Validate()
}

func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	units, err := s.store.ListUnits(r.Context(), identity(r).AdminID, propertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if units == nil {
		units = []core.Unit{}
	}
	writeJSON(w, http.StatusOK, units)
}

func (s *Server) handleCreateUnit(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req unitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	u, err := s.unitFromRequest(r, propertyID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.store.CreateUnit(r.Context(), identity(r).AdminID, u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	unitID, err := pathID(r, "unitID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	u, err := s.store.GetUnit(r.Context(), identity(r).AdminID, propertyID, unitID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUnit(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	unitID, err := pathID(r, "unitID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req unitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	u, err := s.unitFromRequest(r, propertyID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u.ID = unitID
	updated, err := s.store.UpdateUnit(r.Context(), identity(r).AdminID, u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUnit(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	unitID, err := pathID(r, "unitID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteUnit(r.Context(), identity(r).AdminID, propertyID, unitID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
