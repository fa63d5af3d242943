package types

import "time"

// User types. Only UserTypeAdmin grants administrative routes.
const (
	UserTypeStaff   = "staff"
	UserTypeManager = "manager"
	UserTypeBoss    = "boss"
	UserTypeAdmin   = "admin"
)

// User statuses.
const (
	UserStatusOnline   = "online"
	UserStatusBanned   = "banned"
	UserStatusDisabled = "disabled"
)

// User represents an account in the system.
// It contains identity, organizational type, and audit metadata.
type User struct {
	// ID is the UUID of the user.
	ID string `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the unique login address of the user.
	Email string `json:"email" db:"email"`

	// Type is the organizational level of the user
	// ("staff", "manager", "boss" or "admin").
	Type string `json:"type" db:"type"`

	// Status tells whether the account may sign in.
	Status string `json:"status" db:"status"`

	// Avatar is the object storage key of the uploaded avatar, if any.
	Avatar string `json:"avatar,omitempty" db:"avatar"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the administrative type.
func (u User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}
