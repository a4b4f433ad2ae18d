package kanban

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskboard/internal/model"

	"go.uber.org/zap"
)

// NewBoardID is the ID of a board that has not been inserted yet.
const NewBoardID int64 = -1

// boardEnv carries the collaborators every board of a directory shares.
type boardEnv struct {
	store Store
	log   *zap.Logger
	clock func() time.Time
}

// Board is the aggregate root for its three columns, their tasks and the
// member set. All methods are safe for concurrent use; each one holds the
// board's mutex from its first check to its last write.
type Board struct {
	mu  sync.Mutex
	env boardEnv

	id      int64
	name    string
	owner   string
	columns [ColumnCount]*Column
	members map[string]struct{}
	// index maps a task ID to the ordinal of the column holding it.
	index   map[int64]int
	removed bool
}

func newBoard(env boardEnv, id int64, name, owner string) *Board {
	return &Board{
		env:     env,
		id:      id,
		name:    name,
		owner:   owner,
		members: make(map[string]struct{}),
		index:   make(map[int64]int),
	}
}

func validateBoardInput(owner, name string) error {
	if owner == "" {
		return newError(ErrValidation, "the board owner is required")
	}
	if strings.TrimSpace(name) == "" {
		return newError(ErrValidation, "the board name can't be empty")
	}
	return nil
}

// createBoard inserts the board row, its three columns in order and the
// owner's membership in one transaction.
func createBoard(ctx context.Context, env boardEnv, owner, name string) (*Board, error) {
	owner = normalizeEmail(owner)
	if err := validateBoardInput(owner, name); err != nil {
		return nil, err
	}

	b := newBoard(env, NewBoardID, name, owner)
	err := env.store.Atomic(ctx, func(tx Store) error {
		row := &model.Board{Name: name, Owner: owner}
		if err := tx.Boards().Create(ctx, row); err != nil {
			return fmt.Errorf("insert board: %w", err)
		}
		for n := Backlog; n < ColumnCount; n++ {
			col := &model.Column{BoardID: row.ID, Number: n, TasksLimit: Unlimited}
			if err := tx.Columns().Create(ctx, col); err != nil {
				return fmt.Errorf("insert column %d: %w", n, err)
			}
		}
		if err := tx.Members().Create(ctx, &model.BoardMember{BoardID: row.ID, UserEmail: owner}); err != nil {
			return fmt.Errorf("insert board owner: %w", err)
		}
		b.id = row.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	for n := range b.columns {
		b.columns[n] = NewColumn(b.id, n)
	}
	b.members[owner] = struct{}{}
	env.log.Debug("board created",
		zap.Int64("board_id", b.id), zap.String("name", name), zap.String("owner", owner))
	return b, nil
}

// loadBoard rebuilds a board and everything it owns from persisted rows.
func loadBoard(ctx context.Context, env boardEnv, row model.Board) (*Board, error) {
	b := newBoard(env, row.ID, row.Name, row.Owner)

	columns, err := env.store.Columns().ListByBoard(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load columns of board %d: %w", row.ID, err)
	}
	for _, c := range columns {
		if c.Number < Backlog || c.Number >= ColumnCount {
			return nil, fmt.Errorf("board %d: unexpected column number %d", row.ID, c.Number)
		}
		col := NewColumn(row.ID, c.Number)
		col.limit = c.TasksLimit
		b.columns[c.Number] = col
	}
	for n, col := range b.columns {
		if col == nil {
			return nil, fmt.Errorf("board %d: column %d is missing", row.ID, n)
		}
	}

	tasks, err := env.store.Tasks().ListByBoard(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load tasks of board %d: %w", row.ID, err)
	}
	for _, r := range tasks {
		if r.ColumnNumber < Backlog || r.ColumnNumber >= ColumnCount {
			return nil, fmt.Errorf("task %d: unexpected column number %d", r.ID, r.ColumnNumber)
		}
		t := taskFromRow(r)
		b.columns[t.ColumnNumber].tasks[t.ID] = &t
		b.index[t.ID] = t.ColumnNumber
	}

	members, err := env.store.Members().ListByBoard(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load members of board %d: %w", row.ID, err)
	}
	for _, m := range members {
		b.members[m.UserEmail] = struct{}{}
	}
	if _, ok := b.members[b.owner]; !ok {
		return nil, fmt.Errorf("board %d: owner %s is not a member", row.ID, b.owner)
	}
	return b, nil
}

func (b *Board) ID() int64 { return b.id }

func (b *Board) Name() string { return b.name }

func (b *Board) Owner() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

// Members returns the member emails in lexical order.
func (b *Board) Members() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	members := make([]string, 0, len(b.members))
	for m := range b.members {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}

func (b *Board) IsMember(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isMember(normalizeEmail(email))
}

// Column returns a copy of the column with the given ordinal.
func (b *Board) Column(ordinal int) (*Column, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	col, err := b.column(ordinal)
	if err != nil {
		return nil, err
	}
	return col.clone(), nil
}

// Columns returns copies of all three columns in order.
func (b *Board) Columns() []*Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	cols := make([]*Column, 0, ColumnCount)
	for _, c := range b.columns {
		cols = append(cols, c.clone())
	}
	return cols
}

func (b *Board) Task(id int64) (Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, _, ok := b.findTask(id)
	if !ok {
		return Task{}, newError(ErrNotFound, "task %d was not found in board %q", id, b.name)
	}
	return *t, nil
}

// InProgressTasksOf returns the in-progress tasks assigned to email.
func (b *Board) InProgressTasksOf(email string) []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.columns[InProgress].TasksOfAssignee(email)
}

// LimitColumn sets the task limit of a column; Unlimited removes it.
func (b *Board) LimitColumn(ctx context.Context, ordinal, limit int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return err
	}

	col, err := b.column(ordinal)
	if err != nil {
		return b.reject("limit column", err)
	}
	if err := col.CheckLimit(limit); err != nil {
		return b.reject("limit column", err)
	}
	if err := b.env.store.Columns().UpdateLimit(ctx, b.id, ordinal, limit); err != nil {
		return fmt.Errorf("persist limit of column %d: %w", ordinal, err)
	}
	col.limit = limit

	b.env.log.Debug("column limited",
		zap.Int64("board_id", b.id), zap.Int("column", ordinal), zap.Int("limit", limit))
	return nil
}

// CreateTask adds a new unassigned task to the backlog.
func (b *Board) CreateTask(ctx context.Context, actor string, dueDate time.Time, title, description string) (Task, error) {
	actor = normalizeEmail(actor)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return Task{}, err
	}

	if !b.isMember(actor) {
		return Task{}, b.reject("create task", newError(ErrAuthorization, "only a board member can create a task"))
	}
	task, err := NewTask(b.id, dueDate, title, description, b.env.clock())
	if err != nil {
		return Task{}, b.reject("create task", err)
	}

	backlog := b.columns[Backlog]
	err = b.env.store.Atomic(ctx, func(tx Store) error {
		row := task.row()
		if err := tx.Tasks().Create(ctx, row); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		task.ID = row.ID
		// A full backlog rolls the inserted row back.
		return backlog.CanAdd(task.ID)
	})
	if err != nil {
		return Task{}, b.reject("create task", err)
	}

	stored := task
	backlog.tasks[stored.ID] = &stored
	b.index[stored.ID] = Backlog

	b.env.log.Debug("task created",
		zap.Int64("board_id", b.id), zap.Int64("task_id", task.ID), zap.String("user", actor))
	return task, nil
}

// MoveTask advances a task from column ordinal to the next one. Only the
// assignee may move a task, and never out of the done column.
func (b *Board) MoveTask(ctx context.Context, actor string, ordinal int, taskID int64) error {
	actor = normalizeEmail(actor)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return err
	}

	if !b.isMember(actor) {
		return b.reject("move task", newError(ErrAuthorization, "only a board member can move a task"))
	}
	from, err := b.column(ordinal)
	if err != nil {
		return b.reject("move task", err)
	}
	if ordinal == Done {
		return b.reject("move task", newError(ErrState, "cannot move a task out of the done column"))
	}
	task := from.get(taskID)
	if task == nil {
		return b.reject("move task",
			newError(ErrNotFound, "task %d doesn't exist in column %d", taskID, ordinal))
	}
	if !task.IsAssignee(actor) {
		return b.reject("move task", newError(ErrAuthorization, "only the task assignee can move the task"))
	}
	to := b.columns[ordinal+1]
	if err := to.CanAdd(taskID); err != nil {
		return b.reject("move task", err)
	}

	next := *task
	next.ColumnNumber = ordinal + 1
	if err := b.env.store.Tasks().Update(ctx, next.row()); err != nil {
		return fmt.Errorf("persist move of task %d: %w", taskID, err)
	}
	*task = next
	delete(from.tasks, taskID)
	to.tasks[taskID] = task
	b.index[taskID] = next.ColumnNumber

	b.env.log.Debug("task moved",
		zap.Int64("board_id", b.id), zap.Int64("task_id", taskID), zap.Int("column", next.ColumnNumber))
	return nil
}

// EditTask replaces the due date, title and description of a task that is
// not done yet.
func (b *Board) EditTask(ctx context.Context, actor string, taskID int64, dueDate time.Time, title, description string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return err
	}

	task, ordinal, ok := b.findTask(taskID)
	if !ok {
		return b.reject("edit task", newError(ErrNotFound, "task %d was not found in board %q", taskID, b.name))
	}
	if ordinal == Done {
		return b.reject("edit task", newError(ErrState, "a task in the done column can not be edited"))
	}

	next := *task
	if err := next.Edit(actor, dueDate, title, description); err != nil {
		return b.reject("edit task", err)
	}
	if err := b.env.store.Tasks().Update(ctx, next.row()); err != nil {
		return fmt.Errorf("persist edit of task %d: %w", taskID, err)
	}
	*task = next

	b.env.log.Debug("task edited", zap.Int64("board_id", b.id), zap.Int64("task_id", taskID))
	return nil
}

// AssignTask makes newAssignee the assignee of a task. Both users must be
// board members.
func (b *Board) AssignTask(ctx context.Context, taskID int64, actor, newAssignee string) error {
	actor = normalizeEmail(actor)
	newAssignee = normalizeEmail(newAssignee)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return err
	}

	task, _, ok := b.findTask(taskID)
	if !ok {
		return b.reject("assign task", newError(ErrNotFound, "task %d was not found in board %q", taskID, b.name))
	}
	if !b.isMember(actor) {
		return b.reject("assign task", newError(ErrAuthorization, "user must be a board member to assign tasks"))
	}
	if !b.isMember(newAssignee) {
		return b.reject("assign task", newError(ErrState, "a task can only be assigned to a board member"))
	}

	next := *task
	if err := next.ChangeAssignee(actor, newAssignee); err != nil {
		return b.reject("assign task", err)
	}
	if err := b.env.store.Tasks().Update(ctx, next.row()); err != nil {
		return fmt.Errorf("persist assignee of task %d: %w", taskID, err)
	}
	*task = next

	b.env.log.Debug("task assigned",
		zap.Int64("board_id", b.id), zap.Int64("task_id", taskID), zap.String("assignee", newAssignee))
	return nil
}

func (b *Board) AddMember(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return err
	}

	if email == "" {
		return b.reject("add member", newError(ErrValidation, "the user email is required"))
	}
	if b.isMember(email) {
		return b.reject("add member", newError(ErrState, "this user is already a board member"))
	}
	if err := b.env.store.Members().Create(ctx, &model.BoardMember{BoardID: b.id, UserEmail: email}); err != nil {
		return fmt.Errorf("persist member %s: %w", email, err)
	}
	b.members[email] = struct{}{}

	b.env.log.Debug("member added", zap.Int64("board_id", b.id), zap.String("user", email))
	return nil
}

// RemoveMember takes email off the board. The member's tasks in the backlog
// and in progress become unassigned; done tasks keep their assignee.
func (b *Board) RemoveMember(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return err
	}

	if email == b.owner {
		return b.reject("remove member", newError(ErrState, "the board owner can not leave the board"))
	}
	if !b.isMember(email) {
		return b.reject("remove member", newError(ErrNotFound, "the user is not a board member"))
	}

	var released []Task
	for ordinal := Backlog; ordinal < Done; ordinal++ {
		for _, t := range b.columns[ordinal].TasksOfAssignee(email) {
			t.Assignee = Unassigned
			released = append(released, t)
		}
	}
	err := b.env.store.Atomic(ctx, func(tx Store) error {
		if err := tx.Members().Delete(ctx, b.id, email); err != nil {
			return fmt.Errorf("delete member %s: %w", email, err)
		}
		for _, t := range released {
			if err := tx.Tasks().Update(ctx, t.row()); err != nil {
				return fmt.Errorf("unassign task %d: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	delete(b.members, email)
	for ordinal := Backlog; ordinal < Done; ordinal++ {
		b.columns[ordinal].UnassignAllOf(email)
	}

	b.env.log.Debug("member removed",
		zap.Int64("board_id", b.id), zap.String("user", email), zap.Int("unassigned_tasks", len(released)))
	return nil
}

// TransferOwner hands the board to another member.
func (b *Board) TransferOwner(ctx context.Context, oldOwner, newOwner string) error {
	oldOwner = normalizeEmail(oldOwner)
	newOwner = normalizeEmail(newOwner)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return err
	}

	if oldOwner != b.owner {
		return b.reject("transfer owner", newError(ErrAuthorization, "only the board owner can transfer the ownership"))
	}
	if !b.isMember(newOwner) {
		return b.reject("transfer owner", newError(ErrState, "the new owner must be a board member"))
	}
	if err := b.env.store.Boards().UpdateOwner(ctx, b.id, newOwner); err != nil {
		return fmt.Errorf("persist owner of board %d: %w", b.id, err)
	}
	b.owner = newOwner

	b.env.log.Debug("ownership transferred",
		zap.Int64("board_id", b.id), zap.String("from", oldOwner), zap.String("to", newOwner))
	return nil
}

// remove deletes the board with its tasks, columns and members. Any later
// call on b fails with ErrNotFound.
func (b *Board) remove(ctx context.Context, actor string) error {
	actor = normalizeEmail(actor)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLive(); err != nil {
		return err
	}

	if actor != b.owner {
		return b.reject("remove board",
			newError(ErrAuthorization, "a user that is not the board owner can not delete the board"))
	}
	err := b.env.store.Atomic(ctx, func(tx Store) error {
		if err := tx.Tasks().DeleteByBoard(ctx, b.id); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := tx.Columns().DeleteByBoard(ctx, b.id); err != nil {
			return fmt.Errorf("delete columns: %w", err)
		}
		if err := tx.Members().DeleteByBoard(ctx, b.id); err != nil {
			return fmt.Errorf("delete members: %w", err)
		}
		if err := tx.Boards().Delete(ctx, b.id); err != nil {
			return fmt.Errorf("delete board: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.removed = true

	b.env.log.Debug("board removed", zap.Int64("board_id", b.id), zap.String("user", actor))
	return nil
}

func (b *Board) markRemoved() {
	b.mu.Lock()
	b.removed = true
	b.mu.Unlock()
}

func (b *Board) checkLive() error {
	if b.removed {
		return newError(ErrNotFound, "board %d does not exist", b.id)
	}
	return nil
}

func (b *Board) isMember(email string) bool {
	_, ok := b.members[email]
	return ok
}

func (b *Board) column(ordinal int) (*Column, error) {
	if ordinal < Backlog || ordinal >= ColumnCount {
		return nil, newError(ErrValidation, "invalid column number: %d", ordinal)
	}
	return b.columns[ordinal], nil
}

func (b *Board) findTask(id int64) (*Task, int, bool) {
	ordinal, ok := b.index[id]
	if !ok {
		return nil, 0, false
	}
	return b.columns[ordinal].get(id), ordinal, true
}

func (b *Board) reject(op string, err error) error {
	b.env.log.Warn(op+" rejected", zap.Int64("board_id", b.id), zap.Error(err))
	return err
}
