package models

import "time"

// User represents a back-office staff member.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Role         Role      `bson:"role" json:"role"`
	AvatarURL    string    `bson:"avatar_url" json:"avatarUrl"`
	IsActive     bool      `bson:"is_active" json:"isActive"`
	PasswordHash string    `bson:"password_hash" json:"-"` // bcrypt hash, never serialised
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
