package models

import "time"

// User is an account able to log in. PasswordHash holds a bcrypt hash,
// never the plain password.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:150;not null;uniqueIndex"`
	Email        string    `gorm:"size:254"`
	PasswordHash string    `gorm:"size:128;not null"`
	IsActive     bool      `gorm:"not null"`
	DateJoined   time.Time `gorm:"not null"`
}

func (u *User) TableName() string {
	return "users"
}
