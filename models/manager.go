package models

import "time"

// ManagerRole separates fleet managers from the administrators who manage them.
type ManagerRole string

const (
	RoleManager ManagerRole = "manager"
	RoleAdmin   ManagerRole = "admin"
)

// Manager is an authenticated back-office account.
type Manager struct {
	ID           string      `bson:"id" json:"id"`
	Email        string      `bson:"email" json:"email"`
	PasswordHash string      `bson:"password_hash" json:"-"`
	Name         string      `bson:"name" json:"name"`
	Role         ManagerRole `bson:"role" json:"role"`
	TokenHash    string      `bson:"token_hash,omitempty" json:"-"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updated_at"`
}
