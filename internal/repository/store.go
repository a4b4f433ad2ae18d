package repository

import (
	"context"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/kanban"
	"taskboard/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store groups the table repositories behind the kanban.Store interface.
// A Store built from a transaction handle writes through that transaction.
type Store struct {
	db      *gorm.DB
	users   *UserRepository
	boards  *BoardRepository
	columns *ColumnRepository
	tasks   *TaskRepository
	members *MemberRepository
}

var _ kanban.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		users:   NewUserRepository(db),
		boards:  NewBoardRepository(db),
		columns: NewColumnRepository(db),
		tasks:   NewTaskRepository(db),
		members: NewMemberRepository(db),
	}
}

func (s *Store) Users() kanban.UserStore     { return s.users }
func (s *Store) Boards() kanban.BoardStore   { return s.boards }
func (s *Store) Columns() kanban.ColumnStore { return s.columns }
func (s *Store) Tasks() kanban.TaskStore     { return s.tasks }
func (s *Store) Members() kanban.MemberStore { return s.members }

func (s *Store) Atomic(ctx context.Context, fn func(tx kanban.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Open connects to the database selected by cfg.DBDriver and creates any
// missing tables.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		db, err := gorm.Open(postgres.Open(dsn), gormConfig(cfg.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, Bootstrap(db)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, cfg.LogLevel)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenSQLite opens (or creates) the sqlite database at dsn. A single
// connection is used so that writers never contend on the file lock.
func OpenSQLite(dsn, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, Bootstrap(db)
}

// Bootstrap creates the five tables when they do not exist yet.
func Bootstrap(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.Column{},
		&model.Task{},
		&model.BoardMember{},
	); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

func gormConfig(level string) *gorm.Config {
	mode := logger.Warn
	switch level {
	case "debug":
		mode = logger.Info
	case "error":
		mode = logger.Error
	}
	return &gorm.Config{Logger: logger.Default.LogMode(mode)}
}
