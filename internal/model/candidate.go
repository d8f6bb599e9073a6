package model

import "strings"

// Candidate is a parsed-but-unconfirmed record produced by the extraction
// adapter. TempID is unique within one import batch only. Optional fields the
// parser could not determine are left at their zero value; Value is a pointer
// so "no value extracted" is distinguishable from an explicit zero.
type Candidate struct {
	Value  *float64
	TempID string
	Name   string
	Unit   string
	Notes  string
}

// HasName reports whether the candidate carries a usable display name.
func (c Candidate) HasName() bool {
	return strings.TrimSpace(c.Name) != ""
}

// ValueOrZero returns the extracted value, or 0 when the parser omitted it.
func (c Candidate) ValueOrZero() float64 {
	if c.Value == nil {
		return 0
	}
	return *c.Value
}
