package model

// Column stores the task limit of one of a board's three fixed columns.
// TasksLimit is -1 when the column is unlimited.
type Column struct {
	BoardID    int64 `gorm:"primaryKey;autoIncrement:false"`
	Number     int   `gorm:"primaryKey;autoIncrement:false"`
	TasksLimit int   `gorm:"not null"`
}

func (Column) TableName() string { return "columns" }
