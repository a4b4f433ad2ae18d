package kanban

import (
	"context"
	"fmt"
	"sync"

	"taskboard/internal/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserDirectory owns every registered User, keyed by normalized email.
type UserDirectory struct {
	mu       sync.RWMutex
	store    Store
	log      *zap.Logger
	hashCost int
	users    map[string]*User
}

func NewUserDirectory(store Store, log *zap.Logger, opts ...Option) *UserDirectory {
	o := buildOptions(opts)
	return &UserDirectory{
		store:    store,
		log:      log.Named("users"),
		hashCost: o.hashCost,
		users:    make(map[string]*User),
	}
}

// LoadAll replaces the directory contents with the persisted users. Every
// loaded user starts logged out.
func (d *UserDirectory) LoadAll(ctx context.Context) error {
	rows, err := d.store.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	users := make(map[string]*User, len(rows))
	for _, r := range rows {
		users[r.Email] = &User{email: r.Email, passwordHash: r.Password}
	}

	d.mu.Lock()
	d.users = users
	d.mu.Unlock()

	d.log.Info("users loaded", zap.Int("count", len(users)))
	return nil
}

// DeleteAll wipes every user from storage and memory.
func (d *UserDirectory) DeleteAll(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Users().DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	d.users = make(map[string]*User)
	return nil
}

// Register creates a user. The new user is logged in.
func (d *UserDirectory) Register(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[email]; ok {
		return nil, newError(ErrDuplicate, "a user with the email %s already exists", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := d.store.Users().Create(ctx, &model.User{Email: email, Password: string(hash)}); err != nil {
		return nil, fmt.Errorf("persist user %s: %w", email, err)
	}

	u := &User{email: email, passwordHash: string(hash), loggedIn: true}
	d.users[email] = u
	d.log.Debug("user registered", zap.String("user", email))
	return u, nil
}

func (d *UserDirectory) Login(email, password string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, err := d.get(email)
	if err != nil {
		return nil, err
	}
	if u.loggedIn {
		return nil, newError(ErrState, "user %s is already logged in", u.email)
	}
	if !u.passwordMatches(password) {
		d.log.Warn("login rejected", zap.String("user", u.email))
		return nil, newError(ErrAuthorization, "wrong password")
	}
	u.loggedIn = true
	d.log.Debug("user logged in", zap.String("user", u.email))
	return u, nil
}

func (d *UserDirectory) Logout(email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, err := d.get(email)
	if err != nil {
		return err
	}
	if !u.loggedIn {
		return newError(ErrState, "user %s is not logged in", u.email)
	}
	u.loggedIn = false
	d.log.Debug("user logged out", zap.String("user", u.email))
	return nil
}

// ChangePassword replaces the password of a logged-in user who proves the
// current one.
func (d *UserDirectory) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, err := d.get(email)
	if err != nil {
		return err
	}
	if !u.loggedIn {
		return newError(ErrState, "user %s must be logged in to change the password", u.email)
	}
	if !u.passwordMatches(oldPassword) {
		return newError(ErrAuthorization, "wrong password")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), d.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	next := *u
	next.passwordHash = string(hash)
	if err := d.store.Users().UpdatePassword(ctx, next.email, next.passwordHash); err != nil {
		return fmt.Errorf("persist password of %s: %w", u.email, err)
	}
	*u = next

	d.log.Debug("password changed", zap.String("user", u.email))
	return nil
}

func (d *UserDirectory) Exists(email string) bool {
	_, ok := d.Find(email)
	return ok
}

// Get returns the user or a NotFound error.
func (d *UserDirectory) Get(email string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.get(email)
}

// Find is Get for existence checks: a missing user is not an error.
func (d *UserDirectory) Find(email string) (*User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[normalizeEmail(email)]
	return u, ok
}

func (d *UserDirectory) IsLoggedIn(email string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[normalizeEmail(email)]
	return ok && u.loggedIn
}

func (d *UserDirectory) get(email string) (*User, error) {
	u, ok := d.users[normalizeEmail(email)]
	if !ok {
		return nil, newError(ErrNotFound, "user %s does not exist", normalizeEmail(email))
	}
	return u, nil
}
