package model

type Board struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"not null"`
	Owner string `gorm:"not null;index"`
}

func (Board) TableName() string { return "boards" }

// BoardMember links a user email to a board it belongs to.
type BoardMember struct {
	BoardID   int64  `gorm:"primaryKey;autoIncrement:false"`
	UserEmail string `gorm:"primaryKey;size:254"`
}

func (BoardMember) TableName() string { return "board_members" }
