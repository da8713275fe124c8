package http

import (
	"net/http"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

type contractRequest struct {
	UnitID      int64  `json:"unit_id"`
	ResidentID  int64  `json:"resident_id"`
	StartYear   int    `json:"start_year"`
	StartMonth  int    `json:"start_month"`
	EndYear     int    `json:"end_year"`
	EndMonth    int    `json:"end_month"`
	InitialRent string `json:"initial_rent"`
	Index       string `json:"index"`
	Frequency   string `json:"frequency"`
	Status      string `json:"status,omitempty"`
}

func contractFromRequest(req contractRequest) (core.Contract, error) {
	rent, err := core.ParseAmount(req.InitialRent)
	if err != nil {
		return core.Contract{}, err
	}
	c := core.Contract{
		UnitID:      req.UnitID,
		ResidentID:  req.ResidentID,
		Start:       core.Period{Year: req.StartYear, Month: req.StartMonth},
		End:         core.Period{Year: req.EndYear, Month: req.EndMonth},
		InitialRent: rent,
		Index:       core.IndexKind(req.Index),
		Frequency:   core.AdjustmentFrequency(req.Frequency),
		Status:      core.ContractStatus(req.Status),
	}
	if c.Status == "" {
		c.Status = core.ContractActive
	}
	return c, c.Validate()
}

func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := s.store.ListContracts(r.Context(), identity(r).AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if contracts == nil {
		contracts = []core.Contract{}
	}
	writeJSON(w, http.StatusOK, contracts)
}

func (s *Server) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	var req contractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	c, err := contractFromRequest(req)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := s.store.CreateContract(r.Context(), identity(r).AdminID, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	c, err := s.store.GetContract(r.Context(), identity(r).AdminID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req contractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	c, err := contractFromRequest(req)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	c.ID = id
	updated, err := s.store.UpdateContract(r.Context(), identity(r).AdminID, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteContract(r.Context(), identity(r).AdminID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type rentPeriodResponse struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Amount       string `json:"amount"`
	Factor       string `json:"factor"`
	Adjusted     bool   `json:"adjusted"`
	MissingIndex bool   `json:"missing_index,omitempty"`
}

// handleRecalculateContract returns the contract's rent schedule under
// the currently loaded index values.
func (s *Server) handleRecalculateContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	schedule, err := s.contracts.Recalculate(r.Context(), identity(r).AdminID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]rentPeriodResponse, 0, len(schedule))
	for _, rp := range schedule {
		out = append(out, rentPeriodResponse{
			Year:         rp.Period.Year,
			Month:        rp.Period.Month,
			Amount:       rp.Amount.String(),
			Factor:       rp.Factor.String(),
			Adjusted:     rp.Adjusted,
			MissingIndex: rp.MissingIndex,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
