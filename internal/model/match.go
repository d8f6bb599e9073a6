package model

// MatchResult associates one candidate with its best near-duplicate in the
// existing catalog, as scored by the batch match adapter.
type MatchResult struct {
	CandidateID string
	RecordID    string
	Rationale   string
	Score       int
}

// DedupeMatches enforces the at-most-one-match-per-candidate invariant.
// When an adapter returns several results for the same candidate, the highest
// score wins; ties keep the first-seen result. Input order of first
// appearance is preserved.
func DedupeMatches(matches []MatchResult) []MatchResult {
	best := make(map[string]MatchResult, len(matches))
	order := make([]string, 0, len(matches))

	for _, m := range matches {
		existing, seen := best[m.CandidateID]
		if !seen {
			best[m.CandidateID] = m
			order = append(order, m.CandidateID)
			continue
		}
		if m.Score > existing.Score {
			best[m.CandidateID] = m
		}
	}

	out := make([]MatchResult, 0, len(best))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}
