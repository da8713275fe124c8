package http

import (
	"net/http"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context(), identity(r).AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cats == nil {
		cats = []core.ExpenseCategory{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, r, core.ErrEmptyName)
		return
	}
	created, err := s.store.CreateCategory(r.Context(), core.ExpenseCategory{
		AdminID: identity(r).AdminID,
		Name:    req.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, r, core.ErrEmptyName)
		return
	}
	updated, err := s.store.UpdateCategory(r.Context(), core.ExpenseCategory{
		ID:      id,
		AdminID: identity(r).AdminID,
		Name:    req.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteCategory(r.Context(), identity(r).AdminID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
