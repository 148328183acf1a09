// Package model contains domain models passed between layers.
package model

// User is a registered player or administrator.
// The email address is unique across all users; the store enforces this
// on insert.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`

	// Password holds the bcrypt hash of the user's password. It never
	// leaves the service in responses.
	Password string `json:"-"`

	Admin bool `json:"admin"`
}
