package model

// User is a row of the users table. Password holds a bcrypt hash.
type User struct {
	Email    string `gorm:"primaryKey;size:254"`
	Password string `gorm:"not null"`
}

func (User) TableName() string { return "users" }
