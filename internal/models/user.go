package models

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleEnterprise Role = "enterprise"
)

// Profile is the application-side row joined to an auth identity. ID equals the identity id.
type Profile struct {
	Record
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,oneof=user admin enterprise"`
}

func (Profile) TableName() string { return "profiles" }

type ProfilePatch struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Role *Role   `json:"role,omitempty" validate:"omitempty,oneof=user admin enterprise"`
}

// Credential is a locally managed identity, used when no hosted auth service is configured.
type Credential struct {
	Record
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PasswordHash string `json:"password_hash" validate:"required"`
}

func (Credential) TableName() string { return "auth_users" }

// User is the display-ready identity handed to views.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// IsAdmin reports whether the user may use the back office.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
