package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gmendes/orca/internal/common"
	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/service"
)

// State names the controller's position in the review lifecycle. The suspend
// points (AwaitingAdapter, AwaitingUserDecision) are explicit states so the
// flow is testable without a UI.
type State string

// Controller states.
const (
	StateIdle                 State = "idle"
	StateAwaitingAdapter      State = "awaiting_adapter"
	StateAwaitingUserDecision State = "awaiting_user_decision"
	StateCommitting           State = "committing"
	StateDone                 State = "done"
	StateCancelled            State = "cancelled"
)

// Batch is the outcome of a completed review queue: one decision per
// candidate, in input order, correlated by candidate id.
type Batch struct {
	Candidates   []model.Candidate
	Decisions    []model.ReviewDecision
	AutoResolved int
	UserResolved int
}

// Empty reports whether the batch produced nothing to stage.
func (b *Batch) Empty() bool {
	return len(b.Candidates) == 0
}

// Controller orchestrates one import batch: extraction, batch matching, and
// the sequential review walk. It never touches the canonical catalog; only
// the Committer does.
type Controller struct {
	extractor Extractor
	matcher   Matcher
	prompter  Prompter
	logger    *slog.Logger
	retryOpts service.RetryOptions
	state     State
}

// NewController creates a review queue controller.
func NewController(extractor Extractor, matcher Matcher, prompter Prompter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		extractor: extractor,
		matcher:   matcher,
		prompter:  prompter,
		logger:    logger,
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
		state: StateIdle,
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// queueItem pairs one candidate with its match, if any.
type queueItem struct {
	match     *model.MatchResult
	candidate model.Candidate
}

// Run drives one import batch end to end: parse the raw text, score the
// candidates against the snapshot, then walk the queue. A cancel at any
// suspended step discards the whole batch and returns ErrReviewCancelled.
// Adapter failures abort before any queue starts; no partial state leaks out.
func (c *Controller) Run(ctx context.Context, rawText string, snapshot []model.CatalogRecord) (*Batch, error) {
	c.state = StateAwaitingAdapter

	var candidates []model.Candidate
	err := common.WithRetry(ctx, func() error {
		var extractErr error
		candidates, extractErr = c.extractor.Extract(ctx, rawText)
		return wrapTransient(extractErr)
	}, c.retryOpts)
	if err != nil {
		c.state = StateIdle
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	if len(candidates) == 0 {
		c.state = StateDone
		c.logger.Info("nothing to import")
		return &Batch{Candidates: []model.Candidate{}, Decisions: []model.ReviewDecision{}}, nil
	}

	var matches []model.MatchResult
	err = common.WithRetry(ctx, func() error {
		var matchErr error
		matches, matchErr = c.matcher.MatchBatch(ctx, candidates, snapshot)
		return wrapTransient(matchErr)
	}, c.retryOpts)
	if err != nil {
		c.state = StateIdle
		return nil, fmt.Errorf("batch match failed: %w", err)
	}

	return c.walk(ctx, candidates, matches, snapshot)
}

// walk resolves each queued candidate into exactly one decision, suspending
// for user input only when a match with a resolvable target exists.
func (c *Controller) walk(ctx context.Context, candidates []model.Candidate, matches []model.MatchResult, snapshot []model.CatalogRecord) (*Batch, error) {
	matches = model.DedupeMatches(matches)
	matchByID := make(map[string]model.MatchResult, len(matches))
	for _, m := range matches {
		matchByID[m.CandidateID] = m
	}

	records := make(map[string]model.CatalogRecord, len(snapshot))
	for _, r := range snapshot {
		records[r.ID] = r
	}

	queue := make([]queueItem, 0, len(candidates))
	total := 0
	for _, candidate := range candidates {
		item := queueItem{candidate: candidate}
		if m, ok := matchByID[candidate.TempID]; ok {
			if _, resolvable := records[m.RecordID]; resolvable {
				item.match = &m
				total++
			} else {
				c.logger.Warn("match target absent from snapshot, treating as new",
					"candidate_id", candidate.TempID,
					"record_id", m.RecordID)
			}
		}
		queue = append(queue, item)
	}

	batch := &Batch{Candidates: candidates}
	position := 0

	for _, item := range queue {
		select {
		case <-ctx.Done():
			c.state = StateCancelled
			return nil, ctx.Err()
		default:
		}

		if item.match == nil {
			batch.Decisions = append(batch.Decisions, model.ReviewDecision{
				CandidateID: item.candidate.TempID,
				Kind:        model.DecisionNew,
			})
			batch.AutoResolved++
			continue
		}

		position++
		c.state = StateAwaitingUserDecision
		resolution, err := c.prompter.ResolveMatch(ctx, MatchPrompt{
			Candidate: item.candidate,
			Existing:  records[item.match.RecordID],
			Match:     *item.match,
			Position:  position,
			Total:     total,
		})
		if err != nil {
			c.state = StateCancelled
			return nil, fmt.Errorf("match resolution failed: %w", err)
		}

		switch resolution {
		case ResolutionMerge:
			batch.Decisions = append(batch.Decisions, model.ReviewDecision{
				CandidateID: item.candidate.TempID,
				Kind:        model.DecisionUpdate,
				TargetID:    item.match.RecordID,
			})
			batch.UserResolved++
		case ResolutionNew:
			batch.Decisions = append(batch.Decisions, model.ReviewDecision{
				CandidateID: item.candidate.TempID,
				Kind:        model.DecisionNew,
			})
			batch.UserResolved++
		case ResolutionCancel:
			c.state = StateCancelled
			c.logger.Info("review cancelled, discarding batch",
				"resolved", len(batch.Decisions),
				"remaining", len(candidates)-len(batch.Decisions))
			return nil, common.ErrReviewCancelled
		default:
			c.state = StateCancelled
			return nil, fmt.Errorf("unknown resolution: %d", resolution)
		}
	}

	c.state = StateDone
	return batch, nil
}

// wrapTransient marks adapter errors as retryable unless they are terminal
// data-quality failures, which WithRetry refuses to retry.
func wrapTransient(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrMalformedResponse) || errors.Is(err, common.ErrInvalidInput) {
		return err
	}
	return &common.RetryableError{Err: err, Retryable: true}
}
