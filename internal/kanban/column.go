package kanban

import (
	"sort"
)

// Column ordinals. A board always has exactly ColumnCount columns.
const (
	Backlog = iota
	InProgress
	Done
	ColumnCount
)

// Unlimited is the limit of a column that accepts any number of tasks.
const Unlimited = -1

var columnNames = [ColumnCount]string{"backlog", "in progress", "done"}

// Column holds the tasks of one pipeline stage, keyed by task ID, under an
// optional capacity limit.
type Column struct {
	BoardID int64
	Number  int

	limit int
	tasks map[int64]*Task
}

func NewColumn(boardID int64, number int) *Column {
	return &Column{
		BoardID: boardID,
		Number:  number,
		limit:   Unlimited,
		tasks:   make(map[int64]*Task),
	}
}

func (c *Column) Name() string {
	if c.Number < 0 || c.Number >= ColumnCount {
		return ""
	}
	return columnNames[c.Number]
}

func (c *Column) Limit() int { return c.limit }

func (c *Column) Len() int { return len(c.tasks) }

func (c *Column) HasTask(id int64) bool {
	_, ok := c.tasks[id]
	return ok
}

func (c *Column) Task(id int64) (Task, error) {
	t, ok := c.tasks[id]
	if !ok {
		return Task{}, newError(ErrNotFound, "column %q doesn't have a task with ID %d", c.Name(), id)
	}
	return *t, nil
}

// Tasks returns copies of the column's tasks ordered by ID.
func (c *Column) Tasks() []Task {
	tasks := make([]Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}

// CanAdd reports why a task with the given ID could not be added, if at all.
func (c *Column) CanAdd(id int64) error {
	if c.limit != Unlimited && len(c.tasks) >= c.limit {
		return newError(ErrCapacity, "couldn't add task, column %q reached its limit of %d tasks", c.Name(), c.limit)
	}
	if c.HasTask(id) {
		return newError(ErrDuplicate, "task ID %d already exists in column %q", id, c.Name())
	}
	return nil
}

func (c *Column) AddTask(task *Task) error {
	if task == nil {
		return newError(ErrValidation, "invalid task: nil")
	}
	if err := c.CanAdd(task.ID); err != nil {
		return err
	}
	c.tasks[task.ID] = task
	return nil
}

func (c *Column) RemoveTask(id int64) (*Task, error) {
	t, ok := c.tasks[id]
	if !ok {
		return nil, newError(ErrNotFound, "column %q doesn't have a task with ID %d", c.Name(), id)
	}
	delete(c.tasks, id)
	return t, nil
}

// CheckLimit validates limit against the column's current contents.
func (c *Column) CheckLimit(limit int) error {
	if limit == Unlimited {
		return nil
	}
	if limit <= 0 {
		return newError(ErrValidation, "invalid tasks limit: %d", limit)
	}
	if limit < len(c.tasks) {
		return newError(ErrValidation,
			"cannot limit column %q to %d tasks since it already holds %d", c.Name(), limit, len(c.tasks))
	}
	return nil
}

func (c *Column) SetLimit(limit int) error {
	if err := c.CheckLimit(limit); err != nil {
		return err
	}
	c.limit = limit
	return nil
}

func (c *Column) TasksOfAssignee(email string) []Task {
	var tasks []Task
	for _, t := range c.Tasks() {
		if t.IsAssignee(email) {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// UnassignAllOf clears the assignee of every task assigned to email and
// returns how many tasks changed.
func (c *Column) UnassignAllOf(email string) int {
	n := 0
	for _, t := range c.tasks {
		if t.IsAssignee(email) {
			t.Assignee = Unassigned
			n++
		}
	}
	return n
}

func (c *Column) get(id int64) *Task {
	return c.tasks[id]
}

func (c *Column) clone() *Column {
	cp := NewColumn(c.BoardID, c.Number)
	cp.limit = c.limit
	for id, t := range c.tasks {
		task := *t
		cp.tasks[id] = &task
	}
	return cp
}
