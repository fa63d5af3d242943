package validation

// Board visibility.
const (
	BoardPublic  = "public"
	BoardPrivate = "private"
)

// CreateBoard is the payload of POST /boards.
type CreateBoard struct {
	Title       *string `json:"title" validate:"required,nonempty,min=3,max=50,strict_trim"`
	Description *string `json:"description" validate:"required,nonempty,min=3,max=256,strict_trim"`
	Type        *string `json:"type" validate:"required,oneof=public private"`
}

func (CreateBoard) Messages() map[string]string {
	return map[string]string{
		"title.required":    "Title is required",
		"title.nonempty":    "Title is not allowed to be empty",
		"title.min":         "Title must be at least 3 characters long",
		"title.max":         "Title must be at most 50 characters long",
		"title.strict_trim": "Title must not contain leading or trailing spaces",
	}
}

// UpdateBoard is the payload of PUT and PATCH /boards/{id}. Extra keys such as
// ownership metadata echoed back by clients are tolerated and ignored.
type UpdateBoard struct {
	Title       *string `json:"title" validate:"omitnil,nonempty,min=3,max=50,strict_trim"`
	Description *string `json:"description" validate:"omitnil,nonempty,min=3,max=256,strict_trim"`
	Type        *string `json:"type" validate:"omitnil,oneof=public private"`
}

func (UpdateBoard) AllowUnknown() bool { return true }
