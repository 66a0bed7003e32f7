package models

import (
	"time"
)

// User defines the account model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Email        string    `json:"email" db:"email" example:"mentor@example.com"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name" example:"Jane Doe"`
	Role         RoleType  `json:"role" db:"role" example:"mentor"`
	Bio          string    `json:"bio" db:"bio"`
	ImageData    *string   `json:"-" db:"image_data"` // data URL, served through /images/{role}/{id}
	Skills       []string  `json:"skills" db:"skills"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// HasImage reports whether the user uploaded a profile image.
func (u *User) HasImage() bool {
	return u.ImageData != nil && *u.ImageData != ""
}

// IsMentor reports whether the account has the mentor role.
func (u *User) IsMentor() bool {
	return u.Role == RoleMentor
}
