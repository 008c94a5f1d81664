package models

import "time"

// SystemUserID is the reserved identity used as the sender of system
// messages (group join/leave announcements). Seeded by the migrations.
const SystemUserID = 0

type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePic   string    `json:"profilePic"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"` // base64 data URI, uploaded before persisting
}
