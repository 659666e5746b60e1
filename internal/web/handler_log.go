package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mkowalik/dailybite/internal/domain"
)

func (s *Server) handleGetDailyLog(w http.ResponseWriter, r *http.Request) {
	log, err := s.ledger.Fetch(r.Context(), r.PathValue("date"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var patch domain.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	if err := s.ledger.UpdateEntry(r.Context(), r.PathValue("id"), patch); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commitRequest struct {
	MealType domain.MealType    `json:"mealType"`
	Items    []domain.DraftItem `json:"items"`
}

type commitItemResult struct {
	Name  string            `json:"name"`
	Entry *domain.MealEntry `json:"entry,omitempty"`
	Error string            `json:"error,omitempty"`
}

type commitResponse struct {
	Results []commitItemResult `json:"results"`
}

func (s *Server) handleCommitMeal(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	results, err := s.ledger.Commit(r.Context(), req.Items, req.MealType, r.PathValue("date"))
	if err != nil && results == nil {
		s.writeError(w, err)
		return
	}

	resp := commitResponse{Results: make([]commitItemResult, len(results))}
	for i, res := range results {
		resp.Results[i] = commitItemResult{
			Name:  res.Name,
			Entry: res.Entry,
			Error: res.Error(),
		}
	}

	// Partial failures report per-item outcomes rather than all-or-nothing.
	status := http.StatusCreated
	if err != nil {
		status = http.StatusMultiStatus
	}
	s.writeJSON(w, status, resp)
}
