package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID             int64      `json:"id" db:"id" example:"1"`
	Name           string     `json:"name" db:"name" example:"Asha Verma"`
	Email          string     `json:"email" db:"email" example:"asha@example.com"`
	Password       string     `json:"-" db:"password"`
	Token          *string    `json:"-" db:"token"`
	TokenExpiresAt *time.Time `json:"-" db:"token_expires_at"`
	CreatedAt      time.Time  `json:"-" db:"created_at"`
	UpdatedAt      time.Time  `json:"-" db:"updated_at"`
}

// Identity returns the public view of the user, without hash or token
func (u *User) Identity() *User {
	return &User{ID: u.ID, Name: u.Name, Email: u.Email}
}
