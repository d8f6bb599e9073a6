package workflow

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/service"
	"github.com/gmendes/orca/internal/storage"
)

func newTestStorage(t *testing.T) service.Storage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func saveProject(t *testing.T, store service.Storage, id string, status model.ProjectStatus, changedAt time.Time) {
	t.Helper()
	err := store.SaveProject(context.Background(), &model.Project{
		ID:              id,
		Name:            "Casa " + id,
		Client:          "Construtora Alfa",
		Status:          status,
		CreatedAt:       changedAt,
		StatusChangedAt: changedAt,
	})
	require.NoError(t, err)
}

func TestSweepMovesStaleSentProjects(t *testing.T) {
	store := newTestStorage(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	saveProject(t, store, "p1", model.StatusSent, now.Add(-8*24*time.Hour))
	saveProject(t, store, "p2", model.StatusSent, now.Add(-time.Hour))
	saveProject(t, store, "p3", model.StatusQuoting, now.Add(-30*24*time.Hour))

	monitor := NewMonitor(store, 7*24*time.Hour, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	monitor.now = func() time.Time { return now }

	moved, err := monitor.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	p1, err := store.GetProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFollowUp, p1.Status)
	assert.Equal(t, now, p1.StatusChangedAt.UTC())

	p2, err := store.GetProject(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, p2.Status, "recently sent projects stay put")

	p3, err := store.GetProject(context.Background(), "p3")
	require.NoError(t, err)
	assert.Equal(t, model.StatusQuoting, p3.Status, "only the sent column is swept")
}

func TestSweepIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	saveProject(t, store, "p1", model.StatusSent, now.Add(-10*24*time.Hour))

	monitor := NewMonitor(store, 7*24*time.Hour, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	monitor.now = func() time.Time { return now }

	moved, err := monitor.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	moved, err = monitor.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, moved, "a moved project is not moved again")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := newTestStorage(t)
	monitor := NewMonitor(store, time.Hour, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
