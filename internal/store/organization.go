package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard-pm/apiserver/types"
)

const (
	companyColumns    = `id, name, description, address, phone, email, website, industry, size, created_at, updated_at`
	departmentColumns = `id, name, description, COALESCE(company_id::text, ''), created_at, updated_at`
)

// CompanyRepository handles persistence for companies.
type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func scanCompany(row interface{ Scan(...any) error }) (types.Company, error) {
	var c types.Company
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Address,
		&c.Phone,
		&c.Email,
		&c.Website,
		&c.Industry,
		&c.Size,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *CompanyRepository) List(ctx context.Context) ([]types.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE deleted_at IS NULL ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	companies := []types.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) Get(ctx context.Context, id string) (types.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1 AND deleted_at IS NULL`
	c, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Company{}, ErrNotFound
		}
		return types.Company{}, mapError(err)
	}
	return c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c types.Company) (types.Company, error) {
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	const query = `
		INSERT INTO companies (id, name, description, address, phone, email, website, industry, size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.Address, c.Phone, c.Email, c.Website, c.Industry, c.Size,
		c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return types.Company{}, mapError(err)
	}
	return c, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c types.Company) (types.Company, error) {
	c.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE companies
		SET name = $1, description = $2, address = $3, phone = $4, email = $5,
			website = $6, industry = $7, size = $8, updated_at = $9
		WHERE id = $10 AND deleted_at IS NULL`
	if err := execAffecting(ctx, r.db, query,
		c.Name, c.Description, c.Address, c.Phone, c.Email, c.Website, c.Industry, c.Size,
		c.UpdatedAt, c.ID,
	); err != nil {
		return types.Company{}, err
	}
	return c, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE companies SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.db, query, time.Now().UTC(), id)
}

// DepartmentRepository handles persistence for departments.
type DepartmentRepository struct {
	db *sql.DB
}

func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func scanDepartment(row interface{ Scan(...any) error }) (types.Department, error) {
	var d types.Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CompanyID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// List returns departments, restricted to one company when companyID is set.
func (r *DepartmentRepository) List(ctx context.Context, companyID string) ([]types.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE deleted_at IS NULL`
	var args []any
	if companyID != "" {
		query += ` AND company_id = $1`
		args = append(args, companyID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	departments := []types.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) Get(ctx context.Context, id string) (types.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1 AND deleted_at IS NULL`
	d, err := scanDepartment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Department{}, ErrNotFound
		}
		return types.Department{}, mapError(err)
	}
	return d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d types.Department) (types.Department, error) {
	now := time.Now().UTC()
	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.UpdatedAt = now

	const query = `
		INSERT INTO departments (id, name, description, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		d.ID, d.Name, d.Description, d.CompanyID, d.CreatedAt, d.UpdatedAt,
	); err != nil {
		return types.Department{}, mapError(err)
	}
	return d, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d types.Department) (types.Department, error) {
	d.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE departments
		SET name = $1, description = $2, company_id = NULLIF($3, '')::uuid, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`
	if err := execAffecting(ctx, r.db, query,
		d.Name, d.Description, d.CompanyID, d.UpdatedAt, d.ID,
	); err != nil {
		return types.Department{}, err
	}
	return d, nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE departments SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.db, query, time.Now().UTC(), id)
}
