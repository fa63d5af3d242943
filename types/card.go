package types

import "time"

// Card is a unit of work placed on a list.
type Card struct {
	ID          string `json:"id" db:"id"`
	BoardID     string `json:"boardId" db:"board_id"`
	ListID      string `json:"listId" db:"list_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`

	// ColumnID references the board column the card is shown in, when the client tracks one.
	ColumnID string `json:"columnId,omitempty" db:"column_id"`

	// Type is one of "normal", "emergency" or "low".
	Type string `json:"type,omitempty" db:"type"`

	// Status is one of "todo", "in_progress", "done", "blocked" or "cancelled".
	Status string `json:"status" db:"status"`

	Priority string `json:"priority,omitempty" db:"priority"`
	Position int    `json:"order" db:"position"`

	DueDate   *time.Time `json:"dueDate,omitempty" db:"due_date"`
	StartDate *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"endDate,omitempty" db:"end_date"`

	ChecklistItems []string `json:"checklistItems" db:"checklist_items"`
	Members        string   `json:"members,omitempty" db:"members"`
	Dependencies   string   `json:"dependencies,omitempty" db:"dependencies"`
	Assignees      []string `json:"assignees" db:"assignees"`

	CreatedBy string    `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
