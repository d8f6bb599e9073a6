package model

// DecisionKind says how a reviewed candidate enters the catalog.
type DecisionKind string

const (
	// DecisionNew commits the candidate as a fresh catalog record.
	DecisionNew DecisionKind = "NEW"
	// DecisionUpdate applies the candidate's values onto an existing record.
	DecisionUpdate DecisionKind = "UPDATE"
)

// ReviewDecision is the resolution for one candidate. TargetID is set only
// for DecisionUpdate and names the existing record to merge into.
type ReviewDecision struct {
	CandidateID string
	TargetID    string
	Kind        DecisionKind
}
