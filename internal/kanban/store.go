package kanban

import (
	"context"

	"taskboard/internal/model"
)

// Store is the persistence gateway the aggregates write through. Operations
// that touch more than one row run their writes inside Atomic, and memory is
// only updated once the writes have succeeded.
type Store interface {
	Users() UserStore
	Boards() BoardStore
	Columns() ColumnStore
	Tasks() TaskStore
	Members() MemberStore

	// Atomic runs fn against a Store bound to a single transaction. The
	// transaction is rolled back when fn returns an error.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, email, password string) error
	List(ctx context.Context) ([]model.User, error)
	DeleteAll(ctx context.Context) error
}

type BoardStore interface {
	// Create inserts the row and stores the generated ID back into board.
	Create(ctx context.Context, board *model.Board) error
	UpdateOwner(ctx context.Context, boardID int64, owner string) error
	Delete(ctx context.Context, boardID int64) error
	List(ctx context.Context) ([]model.Board, error)
	DeleteAll(ctx context.Context) error
}

type ColumnStore interface {
	Create(ctx context.Context, column *model.Column) error
	UpdateLimit(ctx context.Context, boardID int64, number, limit int) error
	ListByBoard(ctx context.Context, boardID int64) ([]model.Column, error)
	DeleteByBoard(ctx context.Context, boardID int64) error
	DeleteAll(ctx context.Context) error
}

type TaskStore interface {
	// Create inserts the row and stores the generated ID back into task.
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, taskID int64) error
	ListByBoard(ctx context.Context, boardID int64) ([]model.Task, error)
	DeleteByBoard(ctx context.Context, boardID int64) error
	DeleteAll(ctx context.Context) error
}

type MemberStore interface {
	Create(ctx context.Context, member *model.BoardMember) error
	Delete(ctx context.Context, boardID int64, email string) error
	ListByBoard(ctx context.Context, boardID int64) ([]model.BoardMember, error)
	DeleteByBoard(ctx context.Context, boardID int64) error
	DeleteAll(ctx context.Context) error
}
