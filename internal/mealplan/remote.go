package mealplan

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mkowalik/dailybite/internal/apiclient"
)

// Remote talks to the planning service over HTTP.
type Remote struct {
	api *apiclient.Client
}

func NewRemote(api *apiclient.Client) *Remote {
	return &Remote{api: api}
}

type startResponse struct {
	TaskID string `json:"taskId"`
}

func (r *Remote) StartGeneration(ctx context.Context, req GenerationRequest) (string, error) {
	if err := ValidateRequest(req); err != nil {
		return "", err
	}

	var resp startResponse
	if err := r.api.Do(ctx, http.MethodPost, "/generate", req, &resp); err != nil {
		return "", fmt.Errorf("failed to start generation: %w", err)
	}
	return resp.TaskID, nil
}

func (r *Remote) GetGenerationStatus(ctx context.Context, taskID string) (*GenerationStatus, error) {
	var status GenerationStatus
	path := "/generate/" + url.PathEscape(taskID) + "/status"
	if err := r.api.Do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, fmt.Errorf("failed to get generation status: %w", err)
	}
	if status.Status == "" {
		status.Status = StatusUnknown
	}
	return &status, nil
}
