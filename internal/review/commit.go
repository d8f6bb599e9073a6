package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/service"
	"github.com/gmendes/orca/internal/storage"
	"github.com/google/uuid"
)

// CommitSummary reports what one commit actually did.
type CommitSummary struct {
	Added          int
	Updated        int
	SkippedInvalid int
	DroppedUpdates int
	WriteFailures  int
}

// Committer applies staged decisions to the canonical catalog. Each record's
// write is independent and best-effort: an individual failure is counted and
// logged, never fatal to the rest of the batch.
type Committer struct {
	now     func() time.Time
	newID   func() string
	storage service.Storage
	logger  *slog.Logger
	kind    model.RecordKind
}

// NewCommitter creates a commit step writing records of the given kind.
func NewCommitter(store service.Storage, kind model.RecordKind, logger *slog.Logger) *Committer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Committer{
		storage: store,
		kind:    kind,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Commit walks the staged records in order. New records with a non-empty name
// get a fresh stable id and a single initial history entry; updates append
// exactly one history entry to their target and overwrite value and notes.
// Dangling update targets and nameless new records are counted and reported,
// not fatal. An empty staging commits nothing and reports zeros.
func (c *Committer) Commit(ctx context.Context, staging *Staging) (CommitSummary, error) {
	var summary CommitSummary
	if staging == nil || staging.Len() == 0 {
		return summary, nil
	}

	now := c.now()

	for _, item := range staging.Items() {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		switch item.Decision.Kind {
		case model.DecisionNew:
			if !item.Candidate.HasName() {
				summary.SkippedInvalid++
				c.logger.Warn("skipping record with empty name",
					"candidate_id", item.Candidate.TempID)
				continue
			}

			record := &model.CatalogRecord{
				ID:        c.newID(),
				Kind:      c.kind,
				Name:      item.Candidate.Name,
				Unit:      item.Candidate.Unit,
				Notes:     item.Candidate.Notes,
				CreatedAt: now,
			}
			record.AppendPrice(item.Candidate.ValueOrZero(), now)

			if err := c.storage.CreateRecord(ctx, record); err != nil {
				summary.WriteFailures++
				c.logger.Error("failed to create record",
					"name", record.Name,
					"error", err)
				continue
			}
			summary.Added++

		case model.DecisionUpdate:
			entry := model.PriceEntry{RecordedAt: now, Value: item.Candidate.ValueOrZero()}
			err := c.storage.AppendPrice(ctx, item.Decision.TargetID, entry, item.Candidate.Notes)
			switch {
			case errors.Is(err, storage.ErrRecordNotFound):
				summary.DroppedUpdates++
				c.logger.Warn("update target no longer exists, dropping",
					"candidate_id", item.Candidate.TempID,
					"target_id", item.Decision.TargetID)
			case err != nil:
				summary.WriteFailures++
				c.logger.Error("failed to append price",
					"target_id", item.Decision.TargetID,
					"error", err)
			default:
				summary.Updated++
			}
		}
	}

	c.logger.Info("commit complete",
		"added", summary.Added,
		"updated", summary.Updated,
		"skipped", summary.SkippedInvalid,
		"dropped", summary.DroppedUpdates,
		"write_failures", summary.WriteFailures)

	return summary, nil
}
