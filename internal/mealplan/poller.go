package mealplan

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Poller repeatedly queries a generation task's status until it reaches a
// terminal state or the handle is stopped.
type Poller struct {
	client   Client
	interval time.Duration
	logger   *slog.Logger
}

func NewPoller(client Client, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{client: client, interval: interval, logger: logger}
}

// Handle is one running poll loop. Updates delivers every status the service
// reports, the terminal one last, and is closed when polling ends. Stop
// cancels the loop; it is safe to call more than once and after the loop has
// already finished.
type Handle struct {
	updates chan GenerationStatus

	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// Updates returns the status channel. It is closed when polling ends, whether
// by terminal status, Stop, or context cancellation.
func (h *Handle) Updates() <-chan GenerationStatus {
	return h.updates
}

// Stop cancels polling and waits for the timer goroutine to exit.
func (h *Handle) Stop() {
	h.stopOnce.Do(h.cancel)
	<-h.done
}

// Start begins polling the task. The first poll happens after one interval,
// not immediately; generation never finishes faster than that.
func (p *Poller) Start(ctx context.Context, taskID string) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		updates: make(chan GenerationStatus, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer close(h.updates)
		defer cancel()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			status, err := p.client.GetGenerationStatus(ctx, taskID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Transient poll failures are logged and retried on the next
				// tick; only a terminal status ends the loop.
				p.logger.Warn("failed to poll generation status", "taskId", taskID, "error", err)
				continue
			}

			select {
			case h.updates <- *status:
			case <-ctx.Done():
				return
			}

			if status.Status.Terminal() {
				return
			}
		}
	}()

	return h
}
