package validation

// IDParams identifies a resource by the {id} path segment.
type IDParams struct {
	ID string `json:"id" validate:"required,uuid_rule"`
}

// BoardParams identifies a board by the {boardId} path segment.
type BoardParams struct {
	BoardID string `json:"boardId" validate:"required,uuid_rule"`
}

// UserParams identifies a user by the {userId} path segment.
type UserParams struct {
	UserID string `json:"userId" validate:"required,uuid_rule"`
}
