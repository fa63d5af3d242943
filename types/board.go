package types

import "time"

// Board is a workspace owned by a single user that groups lists and cards.
type Board struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`

	// Type is either "public" or "private".
	Type string `json:"type" db:"type"`

	// OwnerID is the user who created the board. Only the owner may read or change it.
	OwnerID string `json:"ownerId" db:"owner_id"`

	// LastActivityAt is refreshed by the activity worker whenever something on the board changes.
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty" db:"last_activity_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// List is an ordered column of cards on a board.
type List struct {
	ID       string `json:"id" db:"id"`
	BoardID  string `json:"boardId" db:"board_id"`
	Title    string `json:"title" db:"title"`
	Color    string `json:"color,omitempty" db:"color"`
	Archived bool   `json:"archived" db:"archived"`

	// CardOrderIDs holds the card ids of the list in display order.
	CardOrderIDs []string `json:"cardOrderIds" db:"card_order_ids"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
