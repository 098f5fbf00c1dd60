package models

import "time"

// UserRole represents the available roles.
type UserRole string

const (
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// User represents an application user.
type User struct {
	ID           string     `json:"id" bson:"_id"`
	Name         string     `json:"name" bson:"name"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"password_hash,omitempty" bson:"password_hash"`
	Role         UserRole   `json:"role" bson:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	LoginStreak  int        `json:"login_streak" bson:"login_streak"`
	Badges       []Badge    `json:"badges" bson:"badges"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// Public returns a copy safe for API responses.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// HasBadge reports whether the user already holds the given badge.
func (u User) HasBadge(badgeID string) bool {
	for _, b := range u.Badges {
		if b.ID == badgeID {
			return true
		}
	}
	return false
}
