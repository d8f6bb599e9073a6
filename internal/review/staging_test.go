package review

import (
	"testing"

	"github.com/gmendes/orca/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedBatch() *Batch {
	value := 1.30
	return &Batch{
		Candidates: []model.Candidate{
			{TempID: "c1", Name: "Cimento CP II", Unit: "kg", Value: &value},
			{TempID: "c2", Name: "Areia média", Unit: "m3"},
		},
		Decisions: []model.ReviewDecision{
			{CandidateID: "c1", Kind: model.DecisionNew},
			{CandidateID: "c2", Kind: model.DecisionUpdate, TargetID: "r9"},
		},
	}
}

func TestNewStagingZipsByID(t *testing.T) {
	staging, err := NewStaging(stagedBatch())
	require.NoError(t, err)
	require.Equal(t, 2, staging.Len())

	items := staging.Items()
	assert.Equal(t, "c1", items[0].Candidate.TempID)
	assert.Equal(t, model.DecisionNew, items[0].Decision.Kind)
	assert.Equal(t, "c2", items[1].Candidate.TempID)
	assert.Equal(t, "r9", items[1].Decision.TargetID)
}

func TestNewStagingRejectsMismatchedBatch(t *testing.T) {
	batch := stagedBatch()
	batch.Decisions = batch.Decisions[:1]

	_, err := NewStaging(batch)
	assert.Error(t, err)
}

func TestNewStagingNilBatch(t *testing.T) {
	staging, err := NewStaging(nil)
	require.NoError(t, err)
	assert.Zero(t, staging.Len())
}

func TestStagingEdit(t *testing.T) {
	staging, err := NewStaging(stagedBatch())
	require.NoError(t, err)

	err = staging.Edit("c2", func(c *model.Candidate) {
		v := 115.0
		c.Value = &v
		c.Notes = "corrected by hand"
	})
	require.NoError(t, err)

	items := staging.Items()
	require.NotNil(t, items[1].Candidate.Value)
	assert.Equal(t, 115.0, *items[1].Candidate.Value)
	assert.Equal(t, "corrected by hand", items[1].Candidate.Notes)

	assert.Error(t, staging.Edit("ghost", func(*model.Candidate) {}))
}

func TestStagingReplaceKeepsIDAndDecision(t *testing.T) {
	staging, err := NewStaging(stagedBatch())
	require.NoError(t, err)

	v := 32.90
	revised := model.Candidate{TempID: "whatever", Name: "Cimento CP II 32", Unit: "sc 50kg", Value: &v}
	require.NoError(t, staging.Replace("c1", revised))

	items := staging.Items()
	assert.Equal(t, "c1", items[0].Candidate.TempID, "temp id is sticky")
	assert.Equal(t, "Cimento CP II 32", items[0].Candidate.Name)
	assert.Equal(t, model.DecisionNew, items[0].Decision.Kind)

	assert.Error(t, staging.Replace("ghost", revised))
}
