package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsEmployee is true for both roles allowed to submit expenses.
func (r Role) IsEmployee() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User mirrors the auth service's user record. Only the seed-admin command
// writes it directly.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	Banned     bool       `json:"banned"`
	BanReason  *string    `json:"banReason,omitempty"`
	BanExpires *time.Time `json:"banExpires,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
