// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RecordKind distinguishes the two catalog families.
type RecordKind string

const (
	// KindInsumo is a priced input line-item (material, labor, equipment).
	KindInsumo RecordKind = "insumo"
	// KindComposition is a reusable bill-of-quantities template for one task.
	KindComposition RecordKind = "composition"
)

// Valid reports whether the kind is one of the known catalog families.
func (k RecordKind) Valid() bool {
	return k == KindInsumo || k == KindComposition
}

// PriceEntry is one point in a record's value history.
type PriceEntry struct {
	RecordedAt time.Time
	Value      float64
}

// CatalogRecord is a canonical, persisted catalog entry. Its History is
// append-only and ordered; Value always mirrors the most recent entry.
type CatalogRecord struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Unit      string
	Tag       string
	Notes     string
	Kind      RecordKind
	History   []PriceEntry
	Value     float64
}

// AppendPrice records a new value, appending one history entry and updating
// the current value. Past entries are never touched.
func (r *CatalogRecord) AppendPrice(value float64, at time.Time) {
	r.History = append(r.History, PriceEntry{RecordedAt: at, Value: value})
	r.Value = value
}

// Validate checks the invariants every persisted record must hold.
func (r *CatalogRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("record name is required")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("invalid record kind: %q", r.Kind)
	}
	if len(r.History) == 0 {
		return fmt.Errorf("record %q has no history", r.Name)
	}
	if last := r.History[len(r.History)-1].Value; last != r.Value {
		return fmt.Errorf("record %q value %.4f does not match last history entry %.4f", r.Name, r.Value, last)
	}
	return nil
}
