package model

import "time"

// ProjectStatus is a kanban column in the quoting workflow.
type ProjectStatus string

// Kanban columns, in board order.
const (
	StatusBriefing ProjectStatus = "briefing"
	StatusQuoting  ProjectStatus = "quoting"
	StatusReview   ProjectStatus = "review"
	StatusSent     ProjectStatus = "sent"
	StatusFollowUp ProjectStatus = "follow_up"
	StatusClosed   ProjectStatus = "closed"
	StatusArchived ProjectStatus = "archived"
)

// boardOrder drives Next and validation. follow_up sits between sent and
// closed but is only entered by the workflow monitor or an explicit move.
var boardOrder = []ProjectStatus{
	StatusBriefing,
	StatusQuoting,
	StatusReview,
	StatusSent,
	StatusFollowUp,
	StatusClosed,
	StatusArchived,
}

// Valid reports whether the status is a known kanban column.
func (s ProjectStatus) Valid() bool {
	for _, known := range boardOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the following column, or the status itself when it is terminal.
func (s ProjectStatus) Next() ProjectStatus {
	for i, known := range boardOrder {
		if s == known && i+1 < len(boardOrder) {
			return boardOrder[i+1]
		}
	}
	return s
}

// Project is one quoting engagement moving across the kanban board.
type Project struct {
	CreatedAt       time.Time
	StatusChangedAt time.Time
	ID              string
	Name            string
	Client          string
	Notes           string
	Status          ProjectStatus
}
