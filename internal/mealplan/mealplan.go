// Package mealplan starts meal-plan generation on the remote planning service
// and polls it to completion. Generation is long-running; the service hands
// back a task id that is polled at a fixed interval until a terminal status.
package mealplan

import (
	"context"
	"fmt"

	"github.com/mkowalik/dailybite/internal/domain"
)

// Status is a generation task state. Completed, StatusError and Unknown are
// terminal; polling stops there.
type Status string

const (
	StatusStarted    Status = "started"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusUnknown    Status = "unknown"
)

// Terminal reports whether polling should stop at this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusError, StatusUnknown:
		return true
	}
	return false
}

// GenerationRequest asks the planning service for a plan of 1 to 14 days.
type GenerationRequest struct {
	StartDate   string   `json:"startDate"`
	Days        int      `json:"days"`
	Preferences []string `json:"preferences,omitempty"`
}

// GenerationStatus is one poll result for a generation task.
type GenerationStatus struct {
	Status   Status  `json:"status"`
	Progress float64 `json:"progress,omitempty"`
	PlanID   string  `json:"planId,omitempty"`
	Error    string  `json:"error,omitempty"`
	Day      int     `json:"day,omitempty"`
}

// Client is the planning service contract.
type Client interface {
	StartGeneration(ctx context.Context, req GenerationRequest) (taskID string, err error)
	GetGenerationStatus(ctx context.Context, taskID string) (*GenerationStatus, error)
}

// ValidateRequest rejects a generation request before any network call.
func ValidateRequest(req GenerationRequest) error {
	if req.StartDate == "" {
		return fmt.Errorf("%w: empty start date", domain.ErrValidation)
	}
	if req.Days < 1 || req.Days > 14 {
		return fmt.Errorf("%w: days must be 1..14, got %d", domain.ErrValidation, req.Days)
	}
	return nil
}
