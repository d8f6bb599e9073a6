package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/service"
)

// Columns returns the kanban columns in board order.
func Columns() []model.ProjectStatus {
	return []model.ProjectStatus{
		model.StatusBriefing,
		model.StatusQuoting,
		model.StatusReview,
		model.StatusSent,
		model.StatusFollowUp,
		model.StatusClosed,
		model.StatusArchived,
	}
}

// Board groups the stored projects by kanban column.
func Board(ctx context.Context, storage service.Storage) (map[model.ProjectStatus][]model.Project, error) {
	projects, err := storage.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	board := make(map[model.ProjectStatus][]model.Project)
	for _, project := range projects {
		board[project.Status] = append(board[project.Status], project)
	}
	return board, nil
}

// Advance moves a project to the next column. Terminal columns stay put.
func Advance(ctx context.Context, storage service.Storage, id string, at time.Time) (model.ProjectStatus, error) {
	project, err := storage.GetProject(ctx, id)
	if err != nil {
		return "", err
	}

	next := project.Status.Next()
	if next == project.Status {
		return project.Status, nil
	}

	if err := storage.UpdateProjectStatus(ctx, id, next, at); err != nil {
		return "", fmt.Errorf("failed to advance project: %w", err)
	}
	return next, nil
}

// Move places a project in an explicit column, validating the target.
func Move(ctx context.Context, storage service.Storage, id string, status model.ProjectStatus, at time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("unknown board column: %s", status)
	}
	return storage.UpdateProjectStatus(ctx, id, status, at)
}
