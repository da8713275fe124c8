package http

import (
	"net/http"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

type residentRequest struct {
	UnitID int64  `json:"unit_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
}

func (s *Server) handleListResidents(w http.ResponseWriter, r *http.Request) {
	residents, err := s.store.ListResidents(r.Context(), identity(r).AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if residents == nil {
		residents = []core.Resident{}
	}
	writeJSON(w, http.StatusOK, residents)
}

func (s *Server) handleCreateResident(w http.ResponseWriter, r *http.Request) {
	var req residentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	res := core.Resident{
		UnitID: req.UnitID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   core.ResidentRole(req.Role),
	}
	if err := res.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := s.store.CreateResident(r.Context(), identity(r).AdminID, res)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetResident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	res, err := s.store.GetResident(r.Context(), identity(r).AdminID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdateResident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req residentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	res := core.Resident{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  core.ResidentRole(req.Role),
	}
	if err := res.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := s.store.UpdateResident(r.Context(), identity(r).AdminID, res)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteResident(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteResident(r.Context(), identity(r).AdminID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
