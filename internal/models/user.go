package models

import "time"

type UserRole string

const (
	UserRoleResident UserRole = "resident"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       []byte
	FolderPasswordHash []byte
	FlatNumber         string
	Role               UserRole
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Session is a server-side login session. Only the sha256 hash of the
// bearer token is persisted; the raw token lives in the client cookie.
type Session struct {
	ID        string
	UserID    string
	TokenHash []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}
