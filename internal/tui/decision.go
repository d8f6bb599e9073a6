// Package tui provides the full-screen match resolution view, built on
// bubbletea. It is an alternative front-end for the review queue's suspend
// point; the line-oriented prompter in internal/cli remains the fallback for
// non-TTY sessions.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gmendes/orca/internal/review"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF8C42"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFE66D"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// decisionModel presents one candidate against its matched existing record
// and waits for a single keypress.
type decisionModel struct {
	prompt     review.MatchPrompt
	help       help.Model
	keys       keyMap
	resolution review.Resolution
	decided    bool
}

func newDecisionModel(prompt review.MatchPrompt) decisionModel {
	return decisionModel{
		prompt: prompt,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

// Init implements tea.Model.
func (m decisionModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m decisionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Merge):
		m.resolution = review.ResolutionMerge
		m.decided = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.New):
		m.resolution = review.ResolutionNew
		m.decided = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Cancel):
		m.resolution = review.ResolutionCancel
		m.decided = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m decisionModel) View() string {
	if m.decided {
		return ""
	}

	p := m.prompt
	body := fmt.Sprintf(
		"New record:\n  %s  (%s)  %.4f\n\nExisting record:\n  %s  (%s)  %.4f\n\nSimilarity: %s",
		p.Candidate.Name, p.Candidate.Unit, p.Candidate.ValueOrZero(),
		p.Existing.Name, p.Existing.Unit, p.Existing.Value,
		scoreStyle.Render(fmt.Sprintf("%d/100", p.Match.Score)),
	)
	if p.Match.Rationale != "" {
		body += "\n" + subtleStyle.Render(p.Match.Rationale)
	}

	title := titleStyle.Render(fmt.Sprintf("Possible duplicate (%d of %d)", p.Position, p.Total))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		boxStyle.Render(title+"\n\n"+body),
		m.help.View(m.keys),
	)
}

// Prompter implements review.Prompter by running one bubbletea program per
// suspended match.
type Prompter struct{}

// NewPrompter creates a TUI-backed prompter.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// ResolveMatch runs the decision view and returns the chosen resolution.
func (p *Prompter) ResolveMatch(ctx context.Context, prompt review.MatchPrompt) (review.Resolution, error) {
	program := tea.NewProgram(newDecisionModel(prompt), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return review.ResolutionCancel, fmt.Errorf("decision view failed: %w", err)
	}

	m, ok := final.(decisionModel)
	if !ok || !m.decided {
		return review.ResolutionCancel, nil
	}
	return m.resolution, nil
}
