package repository

import (
	"context"

	"taskboard/internal/model"

	"gorm.io/gorm"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *ColumnRepository) UpdateLimit(ctx context.Context, boardID int64, number, limit int) error {
	result := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("board_id = ? AND number = ?", boardID, number).
		Update("tasks_limit", limit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

func (r *ColumnRepository) ListByBoard(ctx context.Context, boardID int64) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("number").Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) DeleteByBoard(ctx context.Context, boardID int64) error {
	return r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&model.Column{}).Error
}

func (r *ColumnRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Column{}).Error
}
