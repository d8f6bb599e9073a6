// Package workflow moves projects across the kanban board: manual column
// advances and the time-based sweep that nudges stale sent quotes into
// follow-up.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/service"
)

// DefaultFollowUpAfter is how long a quote may sit in the sent column before
// the monitor moves it to follow-up.
const DefaultFollowUpAfter = 7 * 24 * time.Hour

// Monitor periodically sweeps the board and auto-transitions projects that
// have been sitting in the sent column past the follow-up threshold.
type Monitor struct {
	now           func() time.Time
	storage       service.Storage
	logger        *slog.Logger
	followUpAfter time.Duration
	interval      time.Duration
}

// NewMonitor creates a monitor over the given storage. A non-positive
// followUpAfter falls back to the default threshold.
func NewMonitor(storage service.Storage, followUpAfter, interval time.Duration, logger *slog.Logger) *Monitor {
	if followUpAfter <= 0 {
		followUpAfter = DefaultFollowUpAfter
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		now:           time.Now,
		storage:       storage,
		logger:        logger,
		followUpAfter: followUpAfter,
		interval:      interval,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if _, err := m.Sweep(ctx); err != nil {
		m.logger.Error("board sweep failed", "error", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				m.logger.Error("board sweep failed", "error", err)
			}
		}
	}
}

// Sweep moves every project that has been in the sent column longer than the
// follow-up threshold. Returns how many projects moved; a failed move is
// logged and does not stop the sweep.
func (m *Monitor) Sweep(ctx context.Context) (int, error) {
	projects, err := m.storage.ListProjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list projects: %w", err)
	}

	now := m.now()
	moved := 0
	for _, project := range projects {
		if project.Status != model.StatusSent {
			continue
		}
		if now.Sub(project.StatusChangedAt) < m.followUpAfter {
			continue
		}

		if err := m.storage.UpdateProjectStatus(ctx, project.ID, model.StatusFollowUp, now); err != nil {
			m.logger.Error("failed to move project to follow-up",
				"project_id", project.ID,
				"error", err)
			continue
		}

		m.logger.Info("project moved to follow-up",
			"project_id", project.ID,
			"name", project.Name,
			"sent_at", project.StatusChangedAt)
		moved++
	}

	return moved, nil
}
