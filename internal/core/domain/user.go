package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User models an account holder in the marketplace.
type User struct {
	ID            string     `json:"id" bson:"_id"`
	Email         string     `json:"email" bson:"email"`
	Name          string     `json:"name" bson:"name"`
	Image         string     `json:"image,omitempty" bson:"image,omitempty"`
	PasswordHash  string     `json:"-" bson:"password_hash"`
	EmailVerified *time.Time `json:"email_verified,omitempty" bson:"email_verified,omitempty"`
	Role          string     `json:"role" bson:"role"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}

// PublicUser is the subset of a user other members are allowed to see.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Public returns the public projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
