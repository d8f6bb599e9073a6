package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/review"
)

func testPrompt() review.MatchPrompt {
	value := 1.30
	return review.MatchPrompt{
		Candidate: model.Candidate{TempID: "c1", Name: "Cimento CP II", Unit: "kg", Value: &value},
		Existing:  model.CatalogRecord{ID: "r1", Name: "Cimento CP II 32", Unit: "kg", Value: 1.25},
		Match:     model.MatchResult{CandidateID: "c1", RecordID: "r1", Score: 92},
		Position:  1,
		Total:     2,
	}
}

func press(t *testing.T, m decisionModel, r rune) decisionModel {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	next, ok := updated.(decisionModel)
	require.True(t, ok)
	return next
}

func TestDecisionModelKeys(t *testing.T) {
	tests := []struct {
		name string
		key  rune
		want review.Resolution
	}{
		{"merge", 'm', review.ResolutionMerge},
		{"add as new", 'n', review.ResolutionNew},
		{"cancel", 'c', review.ResolutionCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newDecisionModel(testPrompt()), tt.key)
			assert.True(t, m.decided)
			assert.Equal(t, tt.want, m.resolution)
		})
	}
}

func TestDecisionModelIgnoresOtherKeys(t *testing.T) {
	m := press(t, newDecisionModel(testPrompt()), 'x')
	assert.False(t, m.decided)
}

func TestDecisionModelView(t *testing.T) {
	view := newDecisionModel(testPrompt()).View()
	assert.Contains(t, view, "Cimento CP II")
	assert.Contains(t, view, "Cimento CP II 32")
	assert.Contains(t, view, "92/100")
	assert.Contains(t, view, "1 of 2")

	m := press(t, newDecisionModel(testPrompt()), 'm')
	assert.Empty(t, m.View(), "decided model renders nothing")
}
