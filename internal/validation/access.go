package validation

// CreateRole is the payload of POST /roles.
type CreateRole struct {
	Name        *string `json:"name" validate:"required,nonempty,max=100,strict_trim"`
	Description string  `json:"description"`
}

// UpdateRole is the payload of PUT /roles/{id}.
type UpdateRole struct {
	Name        *string `json:"name" validate:"omitnil,nonempty,max=100,strict_trim"`
	Description *string `json:"description"`
}

// AssignPermissions replaces the permission set of a role.
type AssignPermissions struct {
	PermissionIDs []string `json:"permissionIds" validate:"required,dive,uuid_rule"`
}

// CreatePermission is the payload of POST /permissions.
type CreatePermission struct {
	Name        *string `json:"name" validate:"required,nonempty,max=150,strict_trim"`
	Description string  `json:"description"`
}

// UpdatePermission is the payload of PUT /permissions/{id}.
type UpdatePermission struct {
	Name        *string `json:"name" validate:"omitnil,nonempty,max=150,strict_trim"`
	Description *string `json:"description"`
}
