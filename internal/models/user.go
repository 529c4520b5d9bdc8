package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model `json:"-"`
	ID         uint      `json:"id" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"uniqueIndex"` // Unique handle, 3-30 chars
	Email      string    `json:"email" gorm:"uniqueIndex"`    // Ensure email is unique across all users
	Password   string    `json:"-"`                           // Store hashed password, ignore for JSON serialization
	Avatar     string    `json:"avatar"`
	Bio        string    `json:"bio"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserCompact is the denormalized author view embedded in post responses
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// ToCompact returns the compact representation of a user
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Bio    *string `json:"bio,omitempty" validate:"omitempty,max=300"`
}
