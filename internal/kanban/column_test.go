package kanban_test

import (
	"testing"

	"taskboard/internal/kanban"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTask(t *testing.T, id int64, assignee string) *kanban.Task {
	t.Helper()
	task, err := kanban.NewTask(1, tomorrow, "task", "", now)
	require.NoError(t, err)
	task.ID = id
	task.Assignee = assignee
	return &task
}

func TestColumn_AddTask(t *testing.T) {
	col := kanban.NewColumn(1, kanban.Backlog)
	assert.Equal(t, "backlog", col.Name())
	assert.Equal(t, kanban.Unlimited, col.Limit())

	require.NoError(t, col.AddTask(newTestTask(t, 1, "")))
	require.NoError(t, col.AddTask(newTestTask(t, 2, "")))

	err := col.AddTask(newTestTask(t, 1, ""))
	assert.ErrorIs(t, err, kanban.ErrDuplicate)
	assert.ErrorIs(t, col.AddTask(nil), kanban.ErrValidation)
	assert.Equal(t, 2, col.Len())
}

func TestColumn_CapacityNeverExceeded(t *testing.T) {
	col := kanban.NewColumn(1, kanban.InProgress)
	require.NoError(t, col.SetLimit(3))

	for id := int64(1); id <= 10; id++ {
		err := col.AddTask(newTestTask(t, id, ""))
		if id <= 3 {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, kanban.ErrCapacity)
		}
		assert.LessOrEqual(t, col.Len(), col.Limit())
	}
}

func TestColumn_SetLimit(t *testing.T) {
	col := kanban.NewColumn(1, kanban.Done)
	require.NoError(t, col.AddTask(newTestTask(t, 1, "")))
	require.NoError(t, col.AddTask(newTestTask(t, 2, "")))

	assert.ErrorIs(t, col.SetLimit(0), kanban.ErrValidation)
	assert.ErrorIs(t, col.SetLimit(-5), kanban.ErrValidation)
	assert.ErrorIs(t, col.SetLimit(1), kanban.ErrValidation)

	require.NoError(t, col.SetLimit(2))
	assert.Equal(t, 2, col.Limit())
	require.NoError(t, col.SetLimit(kanban.Unlimited))
	assert.Equal(t, kanban.Unlimited, col.Limit())
}

func TestColumn_RemoveTask(t *testing.T) {
	col := kanban.NewColumn(1, kanban.Backlog)
	require.NoError(t, col.AddTask(newTestTask(t, 4, "")))

	removed, err := col.RemoveTask(4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed.ID)

	_, err = col.RemoveTask(4)
	assert.ErrorIs(t, err, kanban.ErrNotFound)
	_, err = col.Task(4)
	assert.ErrorIs(t, err, kanban.ErrNotFound)
}

func TestColumn_AssigneeHelpers(t *testing.T) {
	col := kanban.NewColumn(1, kanban.Backlog)
	require.NoError(t, col.AddTask(newTestTask(t, 3, "bob@x.com")))
	require.NoError(t, col.AddTask(newTestTask(t, 1, "bob@x.com")))
	require.NoError(t, col.AddTask(newTestTask(t, 2, "alice@x.com")))

	tasks := col.TasksOfAssignee("BOB@x.com")
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, int64(3), tasks[1].ID)

	assert.Equal(t, 2, col.UnassignAllOf("bob@x.com"))
	assert.Empty(t, col.TasksOfAssignee("bob@x.com"))
	assert.Len(t, col.TasksOfAssignee("alice@x.com"), 1)
}
