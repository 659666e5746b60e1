package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/mealplan"
)

// planWatch tracks one running generation: a poller handle plus the latest
// status it reported, so status reads are served locally between polls.
type planWatch struct {
	handle *mealplan.Handle

	mu     sync.Mutex
	latest mealplan.GenerationStatus
}

func (p *planWatch) status() mealplan.GenerationStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

type startPlanResponse struct {
	TaskID string `json:"taskId"`
}

func (s *Server) handleStartMealPlan(w http.ResponseWriter, r *http.Request) {
	var req mealplan.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	if err := mealplan.ValidateRequest(req); err != nil {
		s.writeError(w, err)
		return
	}

	taskID, err := s.plans.StartGeneration(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.watch(taskID)
	s.writeJSON(w, http.StatusAccepted, startPlanResponse{TaskID: taskID})
}

// watch starts a poller for the task and keeps its latest status. The watch
// outlives the originating request, so polling runs on the background context.
func (s *Server) watch(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.watches[taskID]; ok {
		return
	}

	handle := s.poller.Start(context.Background(), taskID)
	watch := &planWatch{
		handle: handle,
		latest: mealplan.GenerationStatus{Status: mealplan.StatusStarted},
	}
	s.watches[taskID] = watch

	go func() {
		for status := range handle.Updates() {
			watch.mu.Lock()
			watch.latest = status
			watch.mu.Unlock()
		}
	}()
}

func (s *Server) handleGetMealPlanStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskId")

	s.mu.Lock()
	watch, ok := s.watches[taskID]
	s.mu.Unlock()

	if ok {
		s.writeJSON(w, http.StatusOK, watch.status())
		return
	}

	// Unknown to this process (e.g. started elsewhere); ask the service.
	status, err := s.plans.GetGenerationStatus(r.Context(), taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}
