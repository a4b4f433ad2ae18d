package kanban

import (
	"strings"
	"time"
	"unicode/utf8"

	"taskboard/internal/model"
)

const (
	maxTitleLength       = 50
	maxDescriptionLength = 300

	// Unassigned is the assignee of a task nobody has taken yet.
	Unassigned = ""
)

// Task is a unit of work on a board. It is a plain value: a Board changes a
// copy, persists it, and only then swaps it in.
type Task struct {
	ID           int64
	BoardID      int64
	Title        string
	Description  string
	CreationTime time.Time
	DueDate      time.Time
	Assignee     string
	ColumnNumber int
}

// NewTask validates the fields of a new task and returns it unassigned, in
// the backlog. The ID is zero until the task is persisted.
func NewTask(boardID int64, dueDate time.Time, title, description string, now time.Time) (Task, error) {
	if err := validateTaskFields(title, description); err != nil {
		return Task{}, err
	}
	if dueDate.Before(now) {
		return Task{}, newError(ErrValidation, "a due date can not be a past date")
	}
	return Task{
		BoardID:      boardID,
		Title:        title,
		Description:  description,
		CreationTime: now,
		DueDate:      dueDate,
		Assignee:     Unassigned,
		ColumnNumber: Backlog,
	}, nil
}

// Edit overwrites the due date, title and description. Only the assignee
// may edit; the due date is not checked against the current time.
func (t *Task) Edit(actor string, dueDate time.Time, title, description string) error {
	if !t.IsAssignee(actor) {
		return newError(ErrAuthorization, "couldn't edit task %d, since the user is not the task's assignee", t.ID)
	}
	if err := validateTaskFields(title, description); err != nil {
		return err
	}
	if dueDate.IsZero() {
		return newError(ErrValidation, "a due date is required")
	}
	t.DueDate = dueDate
	t.Title = title
	t.Description = description
	return nil
}

// ChangeAssignee hands the task to newAssignee. An unassigned task may be
// taken by anyone; an assigned one only by its current assignee.
func (t *Task) ChangeAssignee(actor, newAssignee string) error {
	newAssignee = normalizeEmail(newAssignee)
	if newAssignee == Unassigned {
		return newError(ErrValidation, "the new assignee is required")
	}
	if t.IsAssigned() && !t.IsAssignee(actor) {
		return newError(ErrAuthorization, "only the task assignee can change the assigned user")
	}
	t.Assignee = newAssignee
	return nil
}

func (t *Task) Unassign() error {
	if !t.IsAssigned() {
		return newError(ErrState, "task %d is already unassigned", t.ID)
	}
	t.Assignee = Unassigned
	return nil
}

func (t Task) IsAssigned() bool {
	return t.Assignee != Unassigned
}

// IsAssignee reports whether email is the task's assignee, ignoring case.
func (t Task) IsAssignee(email string) bool {
	return t.IsAssigned() && t.Assignee == normalizeEmail(email)
}

func (t Task) row() *model.Task {
	return &model.Task{
		ID:           t.ID,
		BoardID:      t.BoardID,
		ColumnNumber: t.ColumnNumber,
		Title:        t.Title,
		Description:  t.Description,
		CreationTime: t.CreationTime,
		DueDate:      t.DueDate,
		Assignee:     t.Assignee,
	}
}

func taskFromRow(r model.Task) Task {
	return Task{
		ID:           r.ID,
		BoardID:      r.BoardID,
		Title:        r.Title,
		Description:  r.Description,
		CreationTime: r.CreationTime,
		DueDate:      r.DueDate,
		Assignee:     r.Assignee,
		ColumnNumber: r.ColumnNumber,
	}
}

func validateTaskFields(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return newError(ErrValidation, "title can't be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return newError(ErrValidation, "title can't be longer than %d characters", maxTitleLength)
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return newError(ErrValidation, "description can't be longer than %d characters", maxDescriptionLength)
	}
	return nil
}
