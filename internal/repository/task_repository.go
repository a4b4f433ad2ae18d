package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database and fills in its generated ID
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update writes every mutable column of the task. CreationTime and BoardID
// never change after insert.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"column_number": task.ColumnNumber,
			"title":         task.Title,
			"description":   task.Description,
			"due_date":      task.DueDate,
			"assignee":      task.Assignee,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListByBoard retrieves all tasks of a board, across its columns
func (r *TaskRepository) ListByBoard(ctx context.Context, boardID int64) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("id").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

func (r *TaskRepository) DeleteByBoard(ctx context.Context, boardID int64) error {
	return r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&model.Task{}).Error
}

func (r *TaskRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Task{}).Error
}
