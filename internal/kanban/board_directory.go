package kanban

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type options struct {
	clock    func() time.Time
	hashCost int
}

// Option configures a directory.
type Option func(*options)

// WithClock overrides the clock used to stamp and validate tasks.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BoardDirectory owns every Board, keyed by ID. Methods that change which
// boards a user belongs to hold the directory lock for their whole run, so
// the name-clash check and the membership write can not interleave.
type BoardDirectory struct {
	mu     sync.RWMutex
	env    boardEnv
	boards map[int64]*Board
}

func NewBoardDirectory(store Store, log *zap.Logger, opts ...Option) *BoardDirectory {
	o := buildOptions(opts)
	return &BoardDirectory{
		env:    boardEnv{store: store, log: log.Named("boards"), clock: o.clock},
		boards: make(map[int64]*Board),
	}
}

// LoadAll replaces the directory contents with the persisted boards,
// including their columns, tasks and members.
func (d *BoardDirectory) LoadAll(ctx context.Context) error {
	rows, err := d.env.store.Boards().List(ctx)
	if err != nil {
		return fmt.Errorf("load boards: %w", err)
	}

	boards := make(map[int64]*Board, len(rows))
	for _, r := range rows {
		b, err := loadBoard(ctx, d.env, r)
		if err != nil {
			return err
		}
		boards[b.id] = b
	}

	d.mu.Lock()
	d.boards = boards
	d.mu.Unlock()

	d.env.log.Info("boards loaded", zap.Int("count", len(boards)))
	return nil
}

// DeleteAll wipes every board with its columns, tasks and members.
func (d *BoardDirectory) DeleteAll(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.env.store.Atomic(ctx, func(tx Store) error {
		if err := tx.Tasks().DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := tx.Columns().DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete columns: %w", err)
		}
		if err := tx.Members().DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete members: %w", err)
		}
		if err := tx.Boards().DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete boards: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, b := range d.boards {
		b.markRemoved()
	}
	d.boards = make(map[int64]*Board)
	return nil
}

// CreateBoard creates a board owned by owner. The owner may not already be
// a member of another board with the same name.
func (d *BoardDirectory) CreateBoard(ctx context.Context, owner, name string) (*Board, error) {
	owner = normalizeEmail(owner)
	if err := validateBoardInput(owner, name); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.findByName(owner, name) != nil {
		return nil, newError(ErrState, "user %s already has a board named %q", owner, name)
	}
	b, err := createBoard(ctx, d.env, owner, name)
	if err != nil {
		return nil, err
	}
	d.boards[b.id] = b
	return b, nil
}

// RemoveBoard deletes a board on behalf of its owner.
func (d *BoardDirectory) RemoveBoard(ctx context.Context, actor string, boardID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.get(boardID)
	if err != nil {
		return err
	}
	if err := b.remove(ctx, actor); err != nil {
		return err
	}
	delete(d.boards, boardID)
	return nil
}

// JoinBoard adds email to the members of a board.
func (d *BoardDirectory) JoinBoard(ctx context.Context, email string, boardID int64) error {
	email = normalizeEmail(email)

	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.get(boardID)
	if err != nil {
		return err
	}
	if other := d.findByName(email, b.name); other != nil && other != b {
		return newError(ErrState, "user %s is already a member of another board named %q", email, b.name)
	}
	return b.AddMember(ctx, email)
}

// LeaveBoard removes email from the members of a board.
func (d *BoardDirectory) LeaveBoard(ctx context.Context, email string, boardID int64) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	b, err := d.get(boardID)
	if err != nil {
		return err
	}
	return b.RemoveMember(ctx, email)
}

// Get returns the board or a NotFound error.
func (d *BoardDirectory) Get(boardID int64) (*Board, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.get(boardID)
}

// Find returns the board or nil.
func (d *BoardDirectory) Find(boardID int64) *Board {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.boards[boardID]
}

// GetForMember returns the board when email is one of its members.
func (d *BoardDirectory) GetForMember(email string, boardID int64) (*Board, error) {
	b, err := d.Get(boardID)
	if err != nil {
		return nil, err
	}
	if !b.IsMember(email) {
		return nil, newError(ErrAuthorization, "user %s is not a member of board %d", normalizeEmail(email), boardID)
	}
	return b, nil
}

// GetByName returns the board named name among those email belongs to.
func (d *BoardDirectory) GetByName(email, name string) (*Board, error) {
	b := d.FindByName(email, name)
	if b == nil {
		return nil, newError(ErrNotFound, "user %s has no board named %q", normalizeEmail(email), name)
	}
	return b, nil
}

// FindByName is GetByName returning nil when there is no such board.
func (d *BoardDirectory) FindByName(email, name string) *Board {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.findByName(normalizeEmail(email), name)
}

// UserBoards returns the boards email belongs to, ordered by ID.
func (d *BoardDirectory) UserBoards(email string) []*Board {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.userBoards(normalizeEmail(email))
}

// ListInProgressTasks returns the in-progress tasks assigned to email across
// all of the user's boards.
func (d *BoardDirectory) ListInProgressTasks(email string) []Task {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var tasks []Task
	for _, b := range d.userBoards(normalizeEmail(email)) {
		tasks = append(tasks, b.InProgressTasksOf(email)...)
	}
	return tasks
}

func (d *BoardDirectory) get(boardID int64) (*Board, error) {
	b, ok := d.boards[boardID]
	if !ok {
		return nil, newError(ErrNotFound, "board %d does not exist", boardID)
	}
	return b, nil
}

func (d *BoardDirectory) findByName(email, name string) *Board {
	for _, b := range d.userBoards(email) {
		if b.name == name {
			return b
		}
	}
	return nil
}

func (d *BoardDirectory) userBoards(email string) []*Board {
	var boards []*Board
	for _, b := range d.boards {
		if b.IsMember(email) {
			boards = append(boards, b)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].id < boards[j].id })
	return boards
}
