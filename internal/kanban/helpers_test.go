package kanban_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/kanban"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

var (
	now      = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tomorrow = now.Add(24 * time.Hour)
	nextWeek = now.Add(7 * 24 * time.Hour)
)

func fixedClock() time.Time { return now }

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := repository.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", "error")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewStore(db)
}

func newBoards(t *testing.T, store kanban.Store) *kanban.BoardDirectory {
	t.Helper()
	return kanban.NewBoardDirectory(store, zaptest.NewLogger(t), kanban.WithClock(fixedClock))
}

func newUsers(t *testing.T, store kanban.Store) *kanban.UserDirectory {
	t.Helper()
	return kanban.NewUserDirectory(store, zaptest.NewLogger(t), kanban.WithHashCost(bcrypt.MinCost))
}

// newBoardWithMembers creates a board owned by owner and joins the others.
func newBoardWithMembers(t *testing.T, dir *kanban.BoardDirectory, name, owner string, others ...string) *kanban.Board {
	t.Helper()
	ctx := context.Background()
	b, err := dir.CreateBoard(ctx, owner, name)
	require.NoError(t, err)
	for _, m := range others {
		require.NoError(t, dir.JoinBoard(ctx, m, b.ID()))
	}
	return b
}

var errInjected = errors.New("injected failure")

// failingStore wraps a real store and fails task updates once armed.
type failingStore struct {
	kanban.Store
	failTaskUpdates  bool
	failMemberWrites bool
}

func (s *failingStore) Tasks() kanban.TaskStore {
	return &failingTasks{TaskStore: s.Store.Tasks(), fail: s.failTaskUpdates}
}

func (s *failingStore) Members() kanban.MemberStore {
	return &failingMembers{MemberStore: s.Store.Members(), fail: s.failMemberWrites}
}

func (s *failingStore) Atomic(ctx context.Context, fn func(tx kanban.Store) error) error {
	return s.Store.Atomic(ctx, func(tx kanban.Store) error {
		return fn(&failingStore{
			Store:            tx,
			failTaskUpdates:  s.failTaskUpdates,
			failMemberWrites: s.failMemberWrites,
		})
	})
}

type failingTasks struct {
	kanban.TaskStore
	fail bool
}

func (f *failingTasks) Update(ctx context.Context, task *model.Task) error {
	if f.fail {
		return errInjected
	}
	return f.TaskStore.Update(ctx, task)
}

type failingMembers struct {
	kanban.MemberStore
	fail bool
}

func (f *failingMembers) Create(ctx context.Context, member *model.BoardMember) error {
	if f.fail {
		return errInjected
	}
	return f.MemberStore.Create(ctx, member)
}
