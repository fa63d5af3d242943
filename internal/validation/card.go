package validation

const CardStatusTodo = "todo"

// CreateCard is the payload of POST /cards.
type CreateCard struct {
	BoardID        *string      `json:"boardId" validate:"required,nonempty,uuid_rule"`
	ListID         *string      `json:"listId" validate:"required,nonempty,uuid_rule"`
	Title          *string      `json:"title" validate:"required,nonempty,min=3,max=50,strict_trim"`
	Description    string       `json:"description"`
	DueDate        string       `json:"dueDate" validate:"omitempty,date_value"`
	Type           *string      `json:"type" validate:"omitnil,oneof=normal emergency low"`
	ChecklistItems StringOrList `json:"checklistItems"`
	StartDate      string       `json:"startDate" validate:"omitempty,date_value"`
	EndDate        string       `json:"endDate" validate:"omitempty,date_value"`
	Members        string       `json:"members"`
	Dependencies   string       `json:"dependencies"`
	Status         *string      `json:"status" validate:"omitnil,oneof=todo in_progress done blocked cancelled"`
}

func (c *CreateCard) ApplyDefaults() {
	if c.Status == nil {
		status := CardStatusTodo
		c.Status = &status
	}
}

// UpdateCard is the payload of PUT /cards/{id}.
type UpdateCard struct {
	Title       *string  `json:"title" validate:"omitnil,nonempty,min=3,max=50,strict_trim"`
	Description *string  `json:"description"`
	ColumnID    *string  `json:"columnId" validate:"omitnil,object_id"`
	Order       *int     `json:"order" validate:"omitnil,gte=0"`
	Priority    *string  `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     *string  `json:"dueDate" validate:"omitnil,iso_date"`
	Assignees   []string `json:"assignees" validate:"omitempty,dive,object_id"`
}

// UpdateCardPartial is the payload of PATCH /cards/{id}; it accepts the same fields as UpdateCard.
type UpdateCardPartial UpdateCard

// UpdateCardOrder is the payload of PATCH /cards/column/{columnId}/order.
type UpdateCardOrder struct {
	CardOrderIDs []string `json:"cardOrderIds" validate:"required,min=1,dive,object_id"`
}

// ColumnParams identifies a column in the path.
type ColumnParams struct {
	ColumnID string `json:"columnId" validate:"required,object_id"`
}
