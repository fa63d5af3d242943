package validation

// MemberRoleMember is the role given when none is requested.
const MemberRoleMember = "member"

// AddMember is the payload of POST /boards/{id}/members and /cards/{id}/members.
// The owner role is reserved for the board creator.
type AddMember struct {
	MemberID *string `json:"memberId" validate:"required,nonempty,uuid_rule"`
	Role     *string `json:"role" validate:"omitnil,oneof=admin member viewer"`
}

func (m *AddMember) ApplyDefaults() {
	if m.Role == nil {
		role := MemberRoleMember
		m.Role = &role
	}
}

// UpdateMemberRole is the payload of PUT .../members/{userId}.
type UpdateMemberRole struct {
	Role *string `json:"role" validate:"required,oneof=admin member viewer"`
}

// MemberParams identifies one member of the resource in {id}.
type MemberParams struct {
	ID     string `json:"id" validate:"required,uuid_rule"`
	UserID string `json:"userId" validate:"required,uuid_rule"`
}
