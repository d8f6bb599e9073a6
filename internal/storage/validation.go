package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gmendes/orca/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidRecord  = errors.New("invalid catalog record")
	ErrInvalidProject = errors.New("invalid project")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord validates a catalog record before persisting it.
func validateRecord(record *model.CatalogRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// validateProject validates a project before persisting it.
func validateProject(project *model.Project) error {
	if project == nil {
		return fmt.Errorf("%w: project", ErrNilParameter)
	}
	if strings.TrimSpace(project.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProject)
	}
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProject)
	}
	if !project.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProject, project.Status)
	}
	return nil
}
