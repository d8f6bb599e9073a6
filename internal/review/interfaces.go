// Package review implements the sequential review queue that walks a batch of
// parsed candidates past the user, deduplicating them against the existing
// catalog before anything is committed.
package review

import (
	"context"

	"github.com/gmendes/orca/internal/model"
)

// Extractor parses raw pasted text into candidate records.
type Extractor interface {
	Extract(ctx context.Context, rawText string) ([]model.Candidate, error)
}

// Matcher scores a whole batch of candidates against the catalog snapshot in
// one call.
type Matcher interface {
	MatchBatch(ctx context.Context, candidates []model.Candidate, catalog []model.CatalogRecord) ([]model.MatchResult, error)
}

// Reviser re-interprets one staged candidate given a correction instruction.
type Reviser interface {
	Revise(ctx context.Context, candidate model.Candidate, instruction string) (model.Candidate, error)
}

// Resolution is the user's answer when a candidate has a near-duplicate.
type Resolution int

const (
	// ResolutionMerge applies the candidate onto the matched existing record.
	ResolutionMerge Resolution = iota
	// ResolutionNew adds the candidate as a fresh record despite the match.
	ResolutionNew
	// ResolutionCancel discards the entire remaining batch.
	ResolutionCancel
)

// MatchPrompt carries everything the user needs to decide one match.
type MatchPrompt struct {
	Candidate model.Candidate
	Existing  model.CatalogRecord
	Match     model.MatchResult
	Position  int
	Total     int
}

// Prompter defines the contract for user interaction during review.
type Prompter interface {
	ResolveMatch(ctx context.Context, prompt MatchPrompt) (Resolution, error)
}
