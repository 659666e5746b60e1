// Package remote is the HTTP adapter for the ledger backend service.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mkowalik/dailybite/internal/apiclient"
	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/session"
)

type Backend struct {
	api *apiclient.Client
}

func New(baseURL string, httpClient *http.Client, sess *session.Session, logger *slog.Logger) *Backend {
	return &Backend{api: apiclient.New(baseURL, httpClient, sess, logger)}
}

func (b *Backend) GetDailyLog(ctx context.Context, date string) (*domain.DailyLog, error) {
	var log domain.DailyLog
	if err := b.api.Do(ctx, http.MethodGet, "/log/"+url.PathEscape(date), nil, &log); err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}
	if log.Date == "" {
		log.Date = date
	}
	return &log, nil
}

func (b *Backend) DeleteEntry(ctx context.Context, id string) error {
	if err := b.api.Do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (b *Backend) UpdateEntry(ctx context.Context, id string, patch domain.EntryPatch) error {
	if err := b.api.Do(ctx, http.MethodPatch, "/entries/"+url.PathEscape(id), patch, nil); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

func (b *Backend) LogEntry(ctx context.Context, entry domain.NewEntry) (*domain.MealEntry, error) {
	var logged domain.MealEntry
	if err := b.api.Do(ctx, http.MethodPost, "/entries", entry, &logged); err != nil {
		return nil, fmt.Errorf("failed to log entry: %w", err)
	}
	return &logged, nil
}

type bulkRequest struct {
	Entries []domain.NewEntry `json:"entries"`
}

type bulkResponse struct {
	Entries []domain.MealEntry `json:"entries"`
}

func (b *Backend) LogEntriesBulk(ctx context.Context, entries []domain.NewEntry) ([]domain.MealEntry, error) {
	var resp bulkResponse
	if err := b.api.Do(ctx, http.MethodPost, "/entries/bulk", bulkRequest{Entries: entries}, &resp); err != nil {
		return nil, fmt.Errorf("failed to log entries: %w", err)
	}
	return resp.Entries, nil
}
