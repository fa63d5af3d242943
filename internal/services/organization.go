package services

import (
	"context"

	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

type CompanyRepository interface {
	List(ctx context.Context) ([]types.Company, error)
	Get(ctx context.Context, id string) (types.Company, error)
	Create(ctx context.Context, company types.Company) (types.Company, error)
	Update(ctx context.Context, company types.Company) (types.Company, error)
	Delete(ctx context.Context, id string) error
}

type DepartmentRepository interface {
	List(ctx context.Context, companyID string) ([]types.Department, error)
	Get(ctx context.Context, id string) (types.Department, error)
	Create(ctx context.Context, department types.Department) (types.Department, error)
	Update(ctx context.Context, department types.Department) (types.Department, error)
	Delete(ctx context.Context, id string) error
}

// CompanyService encapsulates company use-cases.
type CompanyService struct {
	repo CompanyRepository
}

func NewCompanyService(repo CompanyRepository) *CompanyService {
	return &CompanyService{repo: repo}
}

func (s *CompanyService) List(ctx context.Context) ([]types.Company, error) {
	return s.repo.List(ctx)
}

func (s *CompanyService) Get(ctx context.Context, id string) (types.Company, error) {
	company, err := s.repo.Get(ctx, id)
	return company, companyResource.translate(err)
}

func (s *CompanyService) Create(ctx context.Context, in validation.CreateCompany) (types.Company, error) {
	company, err := s.repo.Create(ctx, types.Company{
		Name:        *in.Name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		Website:     in.Website,
		Industry:    in.Industry,
		Size:        in.Size,
	})
	return company, companyResource.translate(err)
}

// Update applies the fields present in the payload. Empty email, website and
// size keep their stored values.
func (s *CompanyService) Update(ctx context.Context, id string, in validation.UpdateCompany) (types.Company, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return types.Company{}, err
	}
	assign(&company.Name, in.Name)
	assign(&company.Description, in.Description)
	assign(&company.Address, in.Address)
	assign(&company.Phone, in.Phone)
	assign(&company.Industry, in.Industry)
	if in.Email != "" {
		company.Email = in.Email
	}
	if in.Website != "" {
		company.Website = in.Website
	}
	if in.Size != "" {
		company.Size = in.Size
	}

	company, err = s.repo.Update(ctx, company)
	return company, companyResource.translate(err)
}

func (s *CompanyService) Delete(ctx context.Context, id string) error {
	return companyResource.translate(s.repo.Delete(ctx, id))
}

// DepartmentService encapsulates department use-cases.
type DepartmentService struct {
	repo DepartmentRepository
}

func NewDepartmentService(repo DepartmentRepository) *DepartmentService {
	return &DepartmentService{repo: repo}
}

func (s *DepartmentService) List(ctx context.Context, companyID string) ([]types.Department, error) {
	return s.repo.List(ctx, companyID)
}

func (s *DepartmentService) Get(ctx context.Context, id string) (types.Department, error) {
	department, err := s.repo.Get(ctx, id)
	return department, departmentResource.translate(err)
}

func (s *DepartmentService) Create(ctx context.Context, in validation.CreateDepartment) (types.Department, error) {
	department, err := s.repo.Create(ctx, types.Department{
		Name:        *in.Name,
		Description: in.Description,
		CompanyID:   in.CompanyID,
	})
	return department, departmentResource.translate(err)
}

func (s *DepartmentService) Update(ctx context.Context, id string, in validation.UpdateDepartment) (types.Department, error) {
	department, err := s.Get(ctx, id)
	if err != nil {
		return types.Department{}, err
	}
	assign(&department.Name, in.Name)
	assign(&department.Description, in.Description)
	if in.CompanyID != "" {
		department.CompanyID = in.CompanyID
	}

	department, err = s.repo.Update(ctx, department)
	return department, departmentResource.translate(err)
}

func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	return departmentResource.translate(s.repo.Delete(ctx, id))
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
