package review

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommitter(t *testing.T) (*Committer, *storage.SQLiteStorage) {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	committer := NewCommitter(db, model.KindInsumo, nil)
	seq := 0
	committer.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return committer, db
}

func stagingFrom(t *testing.T, batch *Batch) *Staging {
	t.Helper()
	staging, err := NewStaging(batch)
	require.NoError(t, err)
	return staging
}

func TestCommitNewRecord(t *testing.T) {
	committer, db := newTestCommitter(t)
	ctx := context.Background()

	value := 1.30
	staging := stagingFrom(t, &Batch{
		Candidates: []model.Candidate{
			{TempID: "c1", Name: "Cimento CP II", Unit: "kg", Value: &value},
		},
		Decisions: []model.ReviewDecision{
			{CandidateID: "c1", Kind: model.DecisionNew},
		},
	})

	summary, err := committer.Commit(ctx, staging)
	require.NoError(t, err)
	assert.Equal(t, CommitSummary{Added: 1}, summary)

	got, err := db.GetRecord(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Cimento CP II", got.Name)
	assert.Equal(t, "kg", got.Unit)
	assert.Equal(t, 1.30, got.Value)
	require.Len(t, got.History, 1)
	assert.Equal(t, 1.30, got.History[0].Value)
}

func TestCommitUpdateAppendsExactlyOneEntry(t *testing.T) {
	committer, db := newTestCommitter(t)
	ctx := context.Background()

	existing := &model.CatalogRecord{ID: "r1", Kind: model.KindInsumo, Name: "Areia média", Unit: "m3"}
	existing.AppendPrice(110, time.Now().Add(-time.Hour))
	require.NoError(t, db.CreateRecord(ctx, existing))

	value := 120.0
	staging := stagingFrom(t, &Batch{
		Candidates: []model.Candidate{
			{TempID: "c1", Name: "Areia media lavada", Unit: "m3", Value: &value, Notes: "fornecedor novo"},
		},
		Decisions: []model.ReviewDecision{
			{CandidateID: "c1", Kind: model.DecisionUpdate, TargetID: "r1"},
		},
	})

	summary, err := committer.Commit(ctx, staging)
	require.NoError(t, err)
	assert.Equal(t, CommitSummary{Updated: 1}, summary)

	got, err := db.GetRecord(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.Value)
	assert.Equal(t, "fornecedor novo", got.Notes)
	require.Len(t, got.History, 2)
	assert.Equal(t, 110.0, got.History[0].Value, "prior entries unchanged and in order")
	assert.Equal(t, 120.0, got.History[1].Value)
	// Merge keeps the record's identity.
	assert.Equal(t, "Areia média", got.Name)
}

func TestCommitDanglingUpdateIsDroppedNotFatal(t *testing.T) {
	committer, db := newTestCommitter(t)
	ctx := context.Background()

	value := 5.0
	staging := stagingFrom(t, &Batch{
		Candidates: []model.Candidate{
			{TempID: "c1", Name: "Brita 1", Unit: "m3", Value: &value},
			{TempID: "c2", Name: "Brita 2", Unit: "m3", Value: &value},
		},
		Decisions: []model.ReviewDecision{
			{CandidateID: "c1", Kind: model.DecisionUpdate, TargetID: "deleted"},
			{CandidateID: "c2", Kind: model.DecisionNew},
		},
	})

	summary, err := committer.Commit(ctx, staging)
	require.NoError(t, err)
	assert.Equal(t, CommitSummary{Added: 1, DroppedUpdates: 1}, summary)

	records, err := db.ListRecords(ctx, model.KindInsumo)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Brita 2", records[0].Name)
}

func TestCommitSkipsNamelessNewRecords(t *testing.T) {
	committer, db := newTestCommitter(t)
	ctx := context.Background()

	staging := stagingFrom(t, &Batch{
		Candidates: []model.Candidate{
			{TempID: "c1", Name: "   ", Unit: "kg"},
			{TempID: "c2", Name: "Cal hidratada", Unit: "kg"},
		},
		Decisions: []model.ReviewDecision{
			{CandidateID: "c1", Kind: model.DecisionNew},
			{CandidateID: "c2", Kind: model.DecisionNew},
		},
	})

	summary, err := committer.Commit(ctx, staging)
	require.NoError(t, err)
	assert.Equal(t, CommitSummary{Added: 1, SkippedInvalid: 1}, summary)

	records, err := db.ListRecords(ctx, model.KindInsumo)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Cal hidratada", records[0].Name)
}

func TestCommitEmptyStagingIsIdempotent(t *testing.T) {
	committer, db := newTestCommitter(t)
	ctx := context.Background()

	summary, err := committer.Commit(ctx, &Staging{})
	require.NoError(t, err)
	assert.Equal(t, CommitSummary{}, summary)

	summary, err = committer.Commit(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, CommitSummary{}, summary)

	records, err := db.ListRecords(ctx, model.KindInsumo)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCommitMissingValueDefaultsToZero(t *testing.T) {
	committer, db := newTestCommitter(t)
	ctx := context.Background()

	staging := stagingFrom(t, &Batch{
		Candidates: []model.Candidate{
			{TempID: "c1", Name: "Arame recozido", Unit: "kg"},
		},
		Decisions: []model.ReviewDecision{
			{CandidateID: "c1", Kind: model.DecisionNew},
		},
	})

	summary, err := committer.Commit(ctx, staging)
	require.NoError(t, err)
	assert.Equal(t, CommitSummary{Added: 1}, summary)

	got, err := db.GetRecord(ctx, "id-1")
	require.NoError(t, err)
	assert.Zero(t, got.Value)
	require.Len(t, got.History, 1)
}
