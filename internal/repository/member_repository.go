package repository

import (
	"context"

	"taskboard/internal/model"

	"gorm.io/gorm"
)

// MemberRepository stores which users belong to which boards.
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, member *model.BoardMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *MemberRepository) Delete(ctx context.Context, boardID int64, email string) error {
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND user_email = ?", boardID, email).
		Delete(&model.BoardMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) ListByBoard(ctx context.Context, boardID int64) ([]model.BoardMember, error) {
	var members []model.BoardMember
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("user_email").Find(&members).Error
	return members, err
}

func (r *MemberRepository) DeleteByBoard(ctx context.Context, boardID int64) error {
	return r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&model.BoardMember{}).Error
}

func (r *MemberRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.BoardMember{}).Error
}
