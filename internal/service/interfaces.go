// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/gmendes/orca/internal/model"
)

// Storage defines the contract for our persistence layer. Every write is an
// independent per-record call; there is no batch or transactional surface,
// so callers treat failures as best-effort (log, count, continue).
type Storage interface {
	// Catalog operations
	CreateRecord(ctx context.Context, record *model.CatalogRecord) error
	GetRecord(ctx context.Context, id string) (*model.CatalogRecord, error)
	ListRecords(ctx context.Context, kind model.RecordKind) ([]model.CatalogRecord, error)
	AppendPrice(ctx context.Context, id string, entry model.PriceEntry, notes string) error
	DeleteRecord(ctx context.Context, id string) error

	// Project operations
	SaveProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	UpdateProjectStatus(ctx context.Context, id string, status model.ProjectStatus, at time.Time) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ImportStats shows the results of one committed import batch.
type ImportStats struct {
	Parsed         int
	AutoResolved   int
	UserResolved   int
	Added          int
	Updated        int
	SkippedInvalid int
	DroppedUpdates int
	WriteFailures  int
	Duration       time.Duration
}
