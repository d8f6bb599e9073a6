package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectStatusNext(t *testing.T) {
	assert.Equal(t, StatusQuoting, StatusBriefing.Next())
	assert.Equal(t, StatusFollowUp, StatusSent.Next())
	// Terminal column stays put.
	assert.Equal(t, StatusArchived, StatusArchived.Next())
}

func TestProjectStatusValid(t *testing.T) {
	assert.True(t, StatusBriefing.Valid())
	assert.True(t, StatusFollowUp.Valid())
	assert.False(t, ProjectStatus("done").Valid())
}
