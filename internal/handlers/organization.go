package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

// OrganizationHandler serves companies and departments. Any signed-in user
// may read them; changes require an admin.
type OrganizationHandler struct {
	companies   *services.CompanyService
	departments *services.DepartmentService
}

func NewOrganizationHandler(companies *services.CompanyService, departments *services.DepartmentService) *OrganizationHandler {
	return &OrganizationHandler{companies: companies, departments: departments}
}

// CompanyRouter registers company routes on the given router.
func CompanyRouter(r chi.Router, h *OrganizationHandler, g Guards) {
	v := g.Validator
	admin := middleware.Authorize(g.Admin)
	idParams := validation.Params[validation.IDParams](v)

	r.Use(middleware.Pipeline(g.Verify))
	r.Method(http.MethodGet, "/", middleware.Handle(h.ListCompanies))
	r.With(middleware.Pipeline(admin, validation.Body[validation.CreateCompany](v))).
		Method(http.MethodPost, "/", middleware.Handle(h.CreateCompany))

	r.Route("/{id}", func(r chi.Router) {
		r.With(middleware.Pipeline(idParams)).
			Method(http.MethodGet, "/", middleware.Handle(h.GetCompany))
		r.With(middleware.Pipeline(admin, idParams, validation.Body[validation.UpdateCompany](v))).
			Method(http.MethodPut, "/", middleware.Handle(h.UpdateCompany))
		r.With(middleware.Pipeline(admin, idParams)).
			Method(http.MethodDelete, "/", middleware.Handle(h.DeleteCompany))
	})
}

// DepartmentRouter registers department routes on the given router.
func DepartmentRouter(r chi.Router, h *OrganizationHandler, g Guards) {
	v := g.Validator
	admin := middleware.Authorize(g.Admin)
	idParams := validation.Params[validation.IDParams](v)

	r.Use(middleware.Pipeline(g.Verify))
	r.Method(http.MethodGet, "/", middleware.Handle(h.ListDepartments))
	r.With(middleware.Pipeline(admin, validation.Body[validation.CreateDepartment](v))).
		Method(http.MethodPost, "/", middleware.Handle(h.CreateDepartment))

	r.Route("/{id}", func(r chi.Router) {
		r.With(middleware.Pipeline(idParams)).
			Method(http.MethodGet, "/", middleware.Handle(h.GetDepartment))
		r.With(middleware.Pipeline(admin, idParams, validation.Body[validation.UpdateDepartment](v))).
			Method(http.MethodPut, "/", middleware.Handle(h.UpdateDepartment))
		r.With(middleware.Pipeline(admin, idParams)).
			Method(http.MethodDelete, "/", middleware.Handle(h.DeleteDepartment))
	})
}

func (h *OrganizationHandler) ListCompanies(w http.ResponseWriter, r *http.Request) error {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Companies retrieved successfully", companies)
	return nil
}

func (h *OrganizationHandler) GetCompany(w http.ResponseWriter, r *http.Request) error {
	company, err := h.companies.Get(r.Context(), params[validation.IDParams](r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Company retrieved successfully", company)
	return nil
}

func (h *OrganizationHandler) CreateCompany(w http.ResponseWriter, r *http.Request) error {
	company, err := h.companies.Create(r.Context(), body[validation.CreateCompany](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "Company created successfully", company)
	return nil
}

func (h *OrganizationHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) error {
	company, err := h.companies.Update(r.Context(), params[validation.IDParams](r).ID, body[validation.UpdateCompany](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Company updated successfully", company)
	return nil
}

func (h *OrganizationHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) error {
	if err := h.companies.Delete(r.Context(), params[validation.IDParams](r).ID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Company deleted successfully", nil)
	return nil
}

// ListDepartments accepts an optional companyId query filter.
func (h *OrganizationHandler) ListDepartments(w http.ResponseWriter, r *http.Request) error {
	companyID := strings.TrimSpace(r.URL.Query().Get("companyId"))
	departments, err := h.departments.List(r.Context(), companyID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Departments retrieved successfully", departments)
	return nil
}

func (h *OrganizationHandler) GetDepartment(w http.ResponseWriter, r *http.Request) error {
	department, err := h.departments.Get(r.Context(), params[validation.IDParams](r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Department retrieved successfully", department)
	return nil
}

func (h *OrganizationHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) error {
	department, err := h.departments.Create(r.Context(), body[validation.CreateDepartment](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "Department created successfully", department)
	return nil
}

func (h *OrganizationHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) error {
	department, err := h.departments.Update(r.Context(), params[validation.IDParams](r).ID, body[validation.UpdateDepartment](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Department updated successfully", department)
	return nil
}

func (h *OrganizationHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) error {
	if err := h.departments.Delete(r.Context(), params[validation.IDParams](r).ID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Department deleted successfully", nil)
	return nil
}
