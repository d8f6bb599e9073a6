package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gmendes/orca/internal/common"
	"github.com/gmendes/orca/internal/model"
)

// Adapter wraps a Client with the three domain operations the import flow
// needs: extraction, batch similarity matching, and per-record revision.
type Adapter struct {
	client Client
	logger *slog.Logger
}

// NewAdapter creates a domain adapter over the given client.
func NewAdapter(client Client, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{client: client, logger: logger}
}

const extractSystemPrompt = `You are a construction cost-engineering assistant. You parse free-form ` +
	`text describing materials, labor, or cost compositions into structured records. ` +
	`Respond with ONLY a valid JSON object, no markdown fences, no commentary.`

type extractResponse struct {
	Reason  string `json:"reason"`
	Records []struct {
		Name  string   `json:"name"`
		Unit  string   `json:"unit"`
		Value *float64 `json:"value"`
		Notes string   `json:"notes"`
	} `json:"records"`
	InvalidInput bool `json:"invalid_input"`
}

// Extract parses raw pasted text into candidate records. Each candidate gets
// a temporary id unique within the batch. Unrecognizable input surfaces as
// common.ErrInvalidInput with the model's stated reason.
func (a *Adapter) Extract(ctx context.Context, rawText string) ([]model.Candidate, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("%w: empty input", common.ErrInvalidInput)
	}

	var sb strings.Builder
	sb.WriteString("Parse the following text into a list of cost records. Fields per record: ")
	sb.WriteString(`"name" (string, required), "unit" (string, may be empty), `)
	sb.WriteString(`"value" (number or null when not stated), "notes" (string, any leftover detail).`)
	sb.WriteString("\n\nIf the text is not a recognizable list of records, respond with ")
	sb.WriteString(`{"invalid_input": true, "reason": "<why>"} instead.` + "\n\n")
	sb.WriteString("Respond as:\n")
	sb.WriteString(`{"invalid_input": false, "records": [{"name": "...", "unit": "...", "value": 1.30, "notes": "..."}]}`)
	sb.WriteString("\n\nText:\n")
	sb.WriteString(rawText)

	content, err := a.client.Complete(ctx, extractSystemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	payload, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var resp extractResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	if resp.InvalidInput {
		reason := resp.Reason
		if reason == "" {
			reason = "text does not look like a list of records"
		}
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidInput, reason)
	}

	candidates := make([]model.Candidate, 0, len(resp.Records))
	for i, rec := range resp.Records {
		candidates = append(candidates, model.Candidate{
			TempID: fmt.Sprintf("c%d", i+1),
			Name:   strings.TrimSpace(rec.Name),
			Unit:   strings.TrimSpace(rec.Unit),
			Value:  rec.Value,
			Notes:  strings.TrimSpace(rec.Notes),
		})
	}

	a.logger.Debug("extraction complete", "candidates", len(candidates))
	return candidates, nil
}

const matchSystemPrompt = `You are a construction cost-engineering assistant. You compare newly parsed ` +
	`records against an existing catalog and report near-duplicates. ` +
	`Respond with ONLY a valid JSON object, no markdown fences, no commentary.`

type matchResponse struct {
	Matches []struct {
		CandidateID string `json:"candidate_id"`
		RecordID    string `json:"record_id"`
		Score       int    `json:"score"`
		Rationale   string `json:"rationale"`
	} `json:"matches"`
}

// MatchBatch scores every candidate against the catalog snapshot in a single
// call. Only genuine near-duplicates come back; candidates with no plausible
// match are simply absent from the result. At most one match per candidate
// survives (highest score, ties to first-seen).
func (a *Adapter) MatchBatch(ctx context.Context, candidates []model.Candidate, catalog []model.CatalogRecord) ([]model.MatchResult, error) {
	if len(candidates) == 0 || len(catalog) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("For each new record below, find the best near-duplicate in the existing catalog, if any.\n")
	sb.WriteString("Report only matches you are reasonably confident about (score 50-100).\n")
	sb.WriteString("Respond as:\n")
	sb.WriteString(`{"matches": [{"candidate_id": "c1", "record_id": "<catalog id>", "score": 92, "rationale": "..."}]}`)
	sb.WriteString("\n\nNew records:\n")
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- id=%s name=%q unit=%q value=%.4f\n", c.TempID, c.Name, c.Unit, c.ValueOrZero())
	}
	sb.WriteString("\nExisting catalog:\n")
	for _, r := range catalog {
		fmt.Fprintf(&sb, "- id=%s name=%q unit=%q value=%.4f\n", r.ID, r.Name, r.Unit, r.Value)
	}

	content, err := a.client.Complete(ctx, matchSystemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("batch match call failed: %w", err)
	}

	payload, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var resp matchResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.TempID] = true
	}

	matches := make([]model.MatchResult, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if !known[m.CandidateID] || m.RecordID == "" {
			a.logger.Warn("dropping match with unknown reference",
				"candidate_id", m.CandidateID,
				"record_id", m.RecordID)
			continue
		}
		matches = append(matches, model.MatchResult{
			CandidateID: m.CandidateID,
			RecordID:    m.RecordID,
			Score:       clampScore(m.Score),
			Rationale:   strings.TrimSpace(m.Rationale),
		})
	}

	return model.DedupeMatches(matches), nil
}

const reviseSystemPrompt = `You are a construction cost-engineering assistant. You re-interpret one ` +
	`parsed record following a correction instruction from the user. ` +
	`Respond with ONLY a valid JSON object, no markdown fences, no commentary.`

// Revise asks the model to re-interpret a single staged record given a
// free-text correction instruction. The temporary id is preserved.
func (a *Adapter) Revise(ctx context.Context, candidate model.Candidate, instruction string) (model.Candidate, error) {
	if strings.TrimSpace(instruction) == "" {
		return model.Candidate{}, fmt.Errorf("%w: empty revision instruction", common.ErrInvalidInput)
	}

	var sb strings.Builder
	sb.WriteString("Current record:\n")
	fmt.Fprintf(&sb, "name=%q unit=%q value=%.4f notes=%q\n", candidate.Name, candidate.Unit, candidate.ValueOrZero(), candidate.Notes)
	sb.WriteString("\nCorrection instruction:\n")
	sb.WriteString(instruction)
	sb.WriteString("\n\nRespond with the corrected record as:\n")
	sb.WriteString(`{"name": "...", "unit": "...", "value": 1.30, "notes": "..."}`)

	content, err := a.client.Complete(ctx, reviseSystemPrompt, sb.String())
	if err != nil {
		return model.Candidate{}, fmt.Errorf("revision call failed: %w", err)
	}

	payload, err := extractJSONObject(content)
	if err != nil {
		return model.Candidate{}, err
	}

	var rec struct {
		Name  string   `json:"name"`
		Unit  string   `json:"unit"`
		Value *float64 `json:"value"`
		Notes string   `json:"notes"`
	}
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return model.Candidate{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	revised := model.Candidate{
		TempID: candidate.TempID,
		Name:   strings.TrimSpace(rec.Name),
		Unit:   strings.TrimSpace(rec.Unit),
		Value:  rec.Value,
		Notes:  strings.TrimSpace(rec.Notes),
	}
	if !revised.HasName() {
		return model.Candidate{}, fmt.Errorf("%w: revised record has no name", common.ErrMalformedResponse)
	}

	return revised, nil
}
