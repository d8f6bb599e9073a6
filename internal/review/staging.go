package review

import (
	"fmt"

	"github.com/gmendes/orca/internal/model"
)

// StagedRecord is one candidate plus its confirmed decision, still editable.
type StagedRecord struct {
	Candidate model.Candidate
	Decision  model.ReviewDecision
}

// Staging holds the user-editable results of a completed review queue until
// they are committed. It never touches the canonical catalog.
type Staging struct {
	items []StagedRecord
}

// NewStaging zips a batch's decisions back to their candidates by candidate
// id, preserving input order.
func NewStaging(batch *Batch) (*Staging, error) {
	if batch == nil {
		return &Staging{}, nil
	}
	if len(batch.Decisions) != len(batch.Candidates) {
		return nil, fmt.Errorf("decision count %d does not match candidate count %d",
			len(batch.Decisions), len(batch.Candidates))
	}

	byID := make(map[string]model.ReviewDecision, len(batch.Decisions))
	for _, d := range batch.Decisions {
		byID[d.CandidateID] = d
	}

	items := make([]StagedRecord, 0, len(batch.Candidates))
	for _, candidate := range batch.Candidates {
		decision, ok := byID[candidate.TempID]
		if !ok {
			return nil, fmt.Errorf("no decision for candidate %s", candidate.TempID)
		}
		items = append(items, StagedRecord{Candidate: candidate, Decision: decision})
	}

	return &Staging{items: items}, nil
}

// Items returns the staged records in input order.
func (s *Staging) Items() []StagedRecord {
	return s.items
}

// Len returns the number of staged records.
func (s *Staging) Len() int {
	return len(s.items)
}

// Edit applies a field-level correction to one staged candidate.
func (s *Staging) Edit(tempID string, fn func(*model.Candidate)) error {
	for i := range s.items {
		if s.items[i].Candidate.TempID == tempID {
			fn(&s.items[i].Candidate)
			return nil
		}
	}
	return fmt.Errorf("no staged record with id %s", tempID)
}

// Replace swaps one staged candidate for a revised version, keeping the
// decision. Used after a revision call re-interprets the record.
func (s *Staging) Replace(tempID string, candidate model.Candidate) error {
	for i := range s.items {
		if s.items[i].Candidate.TempID == tempID {
			candidate.TempID = tempID
			s.items[i].Candidate = candidate
			return nil
		}
	}
	return fmt.Errorf("no staged record with id %s", tempID)
}
