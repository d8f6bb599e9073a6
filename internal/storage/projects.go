package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gmendes/orca/internal/model"
)

// SaveProject inserts or updates a project.
func (s *SQLiteStorage) SaveProject(ctx context.Context, project *model.Project) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProject(project); err != nil {
		return err
	}

	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}
	if project.StatusChangedAt.IsZero() {
		project.StatusChangedAt = project.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, client, notes, status, created_at, status_changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			client = excluded.client,
			notes = excluded.notes,
			status = excluded.status,
			status_changed_at = excluded.status_changed_at
	`, project.ID, project.Name, project.Client, project.Notes, project.Status, project.CreatedAt, project.StatusChangedAt)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	return nil
}

// GetProject retrieves one project by id.
func (s *SQLiteStorage) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var project model.Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, client, notes, status, created_at, status_changed_at
		FROM projects
		WHERE id = ?
	`, id).Scan(
		&project.ID,
		&project.Name,
		&project.Client,
		&project.Notes,
		&project.Status,
		&project.CreatedAt,
		&project.StatusChangedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// ListProjects retrieves all projects ordered by creation time.
func (s *SQLiteStorage) ListProjects(ctx context.Context) ([]model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, client, notes, status, created_at, status_changed_at
		FROM projects
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []model.Project
	for rows.Next() {
		var project model.Project
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Client,
			&project.Notes,
			&project.Status,
			&project.CreatedAt,
			&project.StatusChangedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateProjectStatus moves a project to a new kanban column.
func (s *SQLiteStorage) UpdateProjectStatus(ctx context.Context, id string, status model.ProjectStatus, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProject, status)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET status = ?, status_changed_at = ? WHERE id = ?
	`, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrProjectNotFound
	}

	return nil
}
