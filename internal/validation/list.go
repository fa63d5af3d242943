package validation

// CreateList is the payload of POST /lists.
type CreateList struct {
	BoardID *string `json:"boardId" validate:"required,nonempty,len=36"`
	Title   *string `json:"title" validate:"required,nonempty,min=3,max=255,strict_trim"`
	Color   *string `json:"color" validate:"omitnil,nonempty,min=3,max=20,strict_trim"`
}

// UpdateList is the payload of PUT /lists/{id}.
type UpdateList struct {
	BoardID      *string  `json:"boardId" validate:"omitnil,uuid_rule"`
	Title        *string  `json:"title" validate:"omitnil,nonempty,min=3,max=255,strict_trim"`
	Archived     *bool    `json:"archived"`
	CardOrderIDs []string `json:"cardOrderIds" validate:"omitempty,dive,uuid_rule"`
	Color        *string  `json:"color" validate:"omitnil,nonempty,min=3,max=20,strict_trim"`
}

func (l *UpdateList) ApplyDefaults() {
	if l.CardOrderIDs == nil {
		l.CardOrderIDs = []string{}
	}
}

// UpdateListPartial is the payload of PATCH /lists/{id}.
type UpdateListPartial struct {
	Title    *string `json:"title" validate:"omitnil,nonempty,min=3,max=255,strict_trim"`
	Archived *bool   `json:"archived"`
}

// ReorderList is the payload of PATCH /lists/{id}/reorder.
type ReorderList struct {
	CardOrderIDs []string `json:"cardOrderIds" validate:"required,dive,object_id"`
}
