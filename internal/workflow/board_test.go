package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/storage"
)

func TestBoardGroupsByColumn(t *testing.T) {
	store := newTestStorage(t)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	saveProject(t, store, "p1", model.StatusBriefing, base)
	saveProject(t, store, "p2", model.StatusBriefing, base.Add(time.Hour))
	saveProject(t, store, "p3", model.StatusSent, base)

	board, err := Board(context.Background(), store)
	require.NoError(t, err)
	assert.Len(t, board[model.StatusBriefing], 2)
	assert.Len(t, board[model.StatusSent], 1)
	assert.Empty(t, board[model.StatusClosed])
}

func TestAdvanceMovesToNextColumn(t *testing.T) {
	store := newTestStorage(t)
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	saveProject(t, store, "p1", model.StatusQuoting, at)

	next, err := Advance(context.Background(), store, "p1", at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.StatusReview, next)

	project, err := store.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusReview, project.Status)
	assert.Equal(t, at.Add(time.Hour), project.StatusChangedAt.UTC())
}

func TestAdvanceLeavesTerminalColumn(t *testing.T) {
	store := newTestStorage(t)
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	saveProject(t, store, "p1", model.StatusArchived, at)

	next, err := Advance(context.Background(), store, "p1", at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, next)

	project, err := store.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, at, project.StatusChangedAt.UTC(), "timestamp untouched for terminal columns")
}

func TestAdvanceUnknownProject(t *testing.T) {
	store := newTestStorage(t)
	_, err := Advance(context.Background(), store, "missing", time.Now())
	assert.ErrorIs(t, err, storage.ErrProjectNotFound)
}

func TestMoveRejectsUnknownColumn(t *testing.T) {
	store := newTestStorage(t)
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	saveProject(t, store, "p1", model.StatusBriefing, at)

	err := Move(context.Background(), store, "p1", model.ProjectStatus("doing"), at)
	assert.Error(t, err)

	require.NoError(t, Move(context.Background(), store, "p1", model.StatusClosed, at))
	project, err := store.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, project.Status)
}
