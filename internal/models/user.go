package models

// Role represents the two client-visible roles. The role gate is a UX
// convenience only; it does not authenticate gateway calls.
type Role string

const (
	RoleLecturer Role = "lecturer"
	RoleStudent  Role = "student"
)

// Session is the client-held identity record. Memory only: it is never
// persisted and is lost when the process exits.
type Session struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

// LoginResult is the login response. FirstTimeLogin signals a student account
// that has never set a password; no session fields accompany it.
type LoginResult struct {
	FirstTimeLogin bool   `json:"firstTimeLogin,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           Role   `json:"role,omitempty"`
	Name           string `json:"name,omitempty"`
}

// Credentials is the payload for login, password setup and registration.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
