package models

import "time"

// User is a registered account. Password holds the bcrypt hash, never the
// raw password.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Date     time.Time `json:"date"`
}

// Identity is the minimal caller identity attached to a session. A session
// may carry a user identity, the admin flag, or both.
type Identity struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}

// IsUser reports whether the identity belongs to a registered user.
func (i *Identity) IsUser() bool {
	return i != nil && i.ID != ""
}

// IsAdmin reports whether the session passed admin login.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Admin
}

// IsAnonymous reports whether nobody is logged in.
func (i *Identity) IsAnonymous() bool {
	return !i.IsUser() && !i.IsAdmin()
}

// Identity returns the session view of u.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}
