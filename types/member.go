package types

import "time"

// Member roles on a board or card. The owner role is given to the creator of
// a board and cannot be granted, changed or removed through the API.
const (
	MemberRoleOwner  = "owner"
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
	MemberRoleViewer = "viewer"
)

// Member is a user taking part in a board or a card.
type Member struct {
	UserID   string    `json:"memberId" db:"member_id"`
	Role     string    `json:"role" db:"role"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Avatar   string `json:"avatar,omitempty" db:"avatar"`
	UserType string `json:"userType" db:"user_type"`
}
