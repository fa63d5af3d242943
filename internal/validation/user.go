package validation

// RegisterUser is the payload of POST /auth/register.
type RegisterUser struct {
	Name     *string `json:"name" validate:"required,nonempty,max=100,strict_trim"`
	Email    *string `json:"email" validate:"required,nonempty,max=150,email"`
	Password *string `json:"password" validate:"required,nonempty,min=6,max=255"`
}

// Login is the payload of POST /auth/login.
type Login struct {
	Email    *string `json:"email" validate:"required,nonempty,email"`
	Password *string `json:"password" validate:"required,nonempty"`
}

// ChangePassword is the payload of PUT /users/me/password.
type ChangePassword struct {
	CurrentPassword *string `json:"currentPassword" validate:"required,nonempty,max=255,strict_trim"`
	NewPassword     *string `json:"newPassword" validate:"required,nonempty,max=255,strict_trim"`
	ConfirmPassword *string `json:"confirmPassword" validate:"required,nonempty,strict_trim,eqfield=NewPassword"`
}

// AssignRoles replaces the role set of a user.
type AssignRoles struct {
	RoleIDs []string `json:"roleIds" validate:"required,dive,uuid_rule"`
}
