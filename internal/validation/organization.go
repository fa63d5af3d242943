package validation

// CreateCompany is the payload of POST /companies.
type CreateCompany struct {
	Name        *string `json:"name" validate:"required,nonempty,max=255,strict_trim"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone" validate:"omitempty,max=50"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Website     string  `json:"website" validate:"omitempty,url"`
	Industry    string  `json:"industry" validate:"omitempty,max=255"`
	Size        string  `json:"size" validate:"omitempty,oneof=startup small medium large enterprise"`
}

// UpdateCompany is the payload of PUT /companies/{id}. Empty email, website and
// size values leave the stored value unchanged.
type UpdateCompany struct {
	Name        *string `json:"name" validate:"omitnil,nonempty,max=255,strict_trim"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone" validate:"omitnil,max=50"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Website     string  `json:"website" validate:"omitempty,url"`
	Industry    *string `json:"industry" validate:"omitnil,max=255"`
	Size        string  `json:"size" validate:"omitempty,oneof=startup small medium large enterprise"`
}

// CreateDepartment is the payload of POST /departments.
type CreateDepartment struct {
	Name        *string `json:"name" validate:"required,nonempty,max=255,strict_trim"`
	Description string  `json:"description"`
	CompanyID   string  `json:"companyId" validate:"omitempty,uuid_rule"`
}

// UpdateDepartment is the payload of PUT /departments/{id}.
type UpdateDepartment struct {
	Name        *string `json:"name" validate:"omitnil,nonempty,max=255,strict_trim"`
	Description *string `json:"description"`
	CompanyID   string  `json:"companyId" validate:"omitempty,uuid_rule"`
}
