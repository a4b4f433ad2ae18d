package model

import (
	"time"
)

type Task struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	BoardID      int64     `gorm:"not null;index"`
	ColumnNumber int       `gorm:"not null"`
	Title        string    `gorm:"size:50;not null"`
	Description  string    `gorm:"size:300;not null"`
	CreationTime time.Time `gorm:"not null"`
	DueDate      time.Time `gorm:"not null"`
	Assignee     string    `gorm:"size:254;not null"`
}

func (Task) TableName() string { return "tasks" }
