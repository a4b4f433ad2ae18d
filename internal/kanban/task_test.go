package kanban_test

import (
	"strings"
	"testing"
	"time"

	"taskboard/internal/kanban"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask_Valid(t *testing.T) {
	task, err := kanban.NewTask(7, tomorrow, "Wash dishes", "", now)

	require.NoError(t, err)
	assert.Equal(t, int64(7), task.BoardID)
	assert.Equal(t, kanban.Backlog, task.ColumnNumber)
	assert.Equal(t, kanban.Unassigned, task.Assignee)
	assert.Equal(t, now, task.CreationTime)
	assert.False(t, task.IsAssigned())
}

func TestNewTask_Validation(t *testing.T) {
	tests := []struct {
		name        string
		due         time.Time
		title       string
		description string
	}{
		{"past due date", now.Add(-time.Minute), "title", ""},
		{"empty title", tomorrow, "", ""},
		{"blank title", tomorrow, "   ", ""},
		{"long title", tomorrow, strings.Repeat("a", 51), ""},
		{"long description", tomorrow, "title", strings.Repeat("d", 301)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := kanban.NewTask(1, tt.due, tt.title, tt.description, now)
			assert.ErrorIs(t, err, kanban.ErrValidation)
		})
	}
}

func TestNewTask_BoundaryLengths(t *testing.T) {
	_, err := kanban.NewTask(1, now, strings.Repeat("ü", 50), strings.Repeat("d", 300), now)
	assert.NoError(t, err)
}

func TestTask_Edit(t *testing.T) {
	task, err := kanban.NewTask(1, tomorrow, "title", "", now)
	require.NoError(t, err)

	err = task.Edit("alice@x.com", nextWeek, "new", "desc")
	assert.ErrorIs(t, err, kanban.ErrAuthorization)

	require.NoError(t, task.ChangeAssignee("bob@x.com", "Alice@X.com"))
	assert.Equal(t, "alice@x.com", task.Assignee)

	// A past due date is accepted on edit.
	past := now.Add(-48 * time.Hour)
	require.NoError(t, task.Edit("ALICE@x.com", past, "new", "desc"))
	assert.Equal(t, "new", task.Title)
	assert.Equal(t, "desc", task.Description)
	assert.Equal(t, past, task.DueDate)

	err = task.Edit("alice@x.com", nextWeek, "", "desc")
	assert.ErrorIs(t, err, kanban.ErrValidation)
	assert.Equal(t, "new", task.Title)
}

func TestTask_ChangeAssignee(t *testing.T) {
	task, err := kanban.NewTask(1, tomorrow, "title", "", now)
	require.NoError(t, err)

	// Anyone may take an unassigned task.
	require.NoError(t, task.ChangeAssignee("carol@x.com", "bob@x.com"))
	assert.True(t, task.IsAssignee("bob@x.com"))

	err = task.ChangeAssignee("carol@x.com", "carol@x.com")
	assert.ErrorIs(t, err, kanban.ErrAuthorization)

	require.NoError(t, task.ChangeAssignee("bob@x.com", "carol@x.com"))
	assert.True(t, task.IsAssignee("carol@x.com"))

	err = task.ChangeAssignee("carol@x.com", "")
	assert.ErrorIs(t, err, kanban.ErrValidation)
}

func TestTask_Unassign(t *testing.T) {
	task, err := kanban.NewTask(1, tomorrow, "title", "", now)
	require.NoError(t, err)

	assert.ErrorIs(t, task.Unassign(), kanban.ErrState)

	require.NoError(t, task.ChangeAssignee("bob@x.com", "bob@x.com"))
	require.NoError(t, task.Unassign())
	assert.False(t, task.IsAssigned())
}
