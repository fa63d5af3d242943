package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/taskboard-pm/apiserver/types"
)

const accessColumns = `id, name, description, created_at, updated_at`

// RoleRepository handles persistence for roles and their permission sets.
type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func scanRole(row interface{ Scan(...any) error }) (types.Role, error) {
	var role types.Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	return role, err
}

func (r *RoleRepository) List(ctx context.Context) ([]types.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accessColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	roles := []types.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Get loads a role together with its permissions.
func (r *RoleRepository) Get(ctx context.Context, id string) (types.Role, error) {
	role, err := scanRole(r.db.QueryRowContext(ctx, `SELECT `+accessColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Role{}, ErrNotFound
		}
		return types.Role{}, mapError(err)
	}

	const query = `
		SELECT p.id, p.name, p.description, p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return types.Role{}, mapError(err)
	}
	defer rows.Close()

	role.Permissions = []types.Permission{}
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return types.Role{}, err
		}
		role.Permissions = append(role.Permissions, p)
	}
	return role, rows.Err()
}

func (r *RoleRepository) Create(ctx context.Context, role types.Role) (types.Role, error) {
	now := time.Now().UTC()
	role.ID = uuid.NewString()
	role.CreatedAt = now
	role.UpdatedAt = now

	const query = `INSERT INTO roles (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, role.ID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt); err != nil {
		return types.Role{}, mapError(err)
	}
	return role, nil
}

func (r *RoleRepository) Update(ctx context.Context, role types.Role) (types.Role, error) {
	role.UpdatedAt = time.Now().UTC()
	const query = `UPDATE roles SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	if err := execAffecting(ctx, r.db, query, role.Name, role.Description, role.UpdatedAt, role.ID); err != nil {
		return types.Role{}, err
	}
	return role, nil
}

// Delete removes a role; its grants go with it.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, `DELETE FROM roles WHERE id = $1`, id)
}

// SetPermissions replaces the permissions granted by a role.
func (r *RoleRepository) SetPermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID,
		).Scan(&exists); err != nil {
			return mapError(err)
		}
		if !exists {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		if len(permissionIDs) == 0 {
			return nil
		}

		const insert = `
			INSERT INTO role_permissions (role_id, permission_id)
			SELECT $1, unnest($2::uuid[])
			ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, insert, roleID, pq.Array(permissionIDs)); err != nil {
			return mapError(err)
		}
		return nil
	})
}

// PermissionRepository handles persistence for permissions and permission checks.
type PermissionRepository struct {
	db *sql.DB
}

func NewPermissionRepository(db *sql.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func scanPermission(row interface{ Scan(...any) error }) (types.Permission, error) {
	var p types.Permission
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PermissionRepository) List(ctx context.Context) ([]types.Permission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accessColumns+` FROM permissions ORDER BY name`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	permissions := []types.Permission{}
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}
	return permissions, rows.Err()
}

func (r *PermissionRepository) Get(ctx context.Context, id string) (types.Permission, error) {
	p, err := scanPermission(r.db.QueryRowContext(ctx, `SELECT `+accessColumns+` FROM permissions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Permission{}, ErrNotFound
		}
		return types.Permission{}, mapError(err)
	}
	return p, nil
}

func (r *PermissionRepository) Create(ctx context.Context, p types.Permission) (types.Permission, error) {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	const query = `INSERT INTO permissions (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt); err != nil {
		return types.Permission{}, mapError(err)
	}
	return p, nil
}

func (r *PermissionRepository) Update(ctx context.Context, p types.Permission) (types.Permission, error) {
	p.UpdatedAt = time.Now().UTC()
	const query = `UPDATE permissions SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	if err := execAffecting(ctx, r.db, query, p.Name, p.Description, p.UpdatedAt, p.ID); err != nil {
		return types.Permission{}, err
	}
	return p, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, `DELETE FROM permissions WHERE id = $1`, id)
}

// HasPermission reports whether userID holds the named permission, either
// through one of its roles or as a direct grant.
func (r *PermissionRepository) HasPermission(ctx context.Context, userID, name string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM user_roles ur
			JOIN role_permissions rp ON rp.role_id = ur.role_id
			JOIN permissions p ON p.id = rp.permission_id
			WHERE ur.user_id = $1 AND p.name = $2
			UNION
			SELECT 1
			FROM user_permissions up
			JOIN permissions p ON p.id = up.permission_id
			WHERE up.user_id = $1 AND p.name = $2
		)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, name).Scan(&ok); err != nil {
		return false, mapError(err)
	}
	return ok, nil
}
