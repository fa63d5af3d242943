package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskboard-pm/apiserver/types"
)

// MemberRepository handles the membership table of one kind of resource.
type MemberRepository struct {
	db    *sql.DB
	table string
	key   string
}

// NewBoardMemberRepository returns the repository for board members.
func NewBoardMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db, table: "board_members", key: "board_id"}
}

// NewCardMemberRepository returns the repository for card members.
func NewCardMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db, table: "card_members", key: "card_id"}
}

func (r *MemberRepository) selectMembers() string {
	return fmt.Sprintf(`SELECT m.member_id, m.role, m.joined_at, u.name, u.email, u.avatar, u.type
		FROM %s m
		JOIN users u ON u.id = m.member_id AND u.deleted_at IS NULL
		WHERE m.%s = $1`, r.table, r.key)
}

func scanMember(row interface{ Scan(...any) error }) (types.Member, error) {
	var m types.Member
	err := row.Scan(&m.UserID, &m.Role, &m.JoinedAt, &m.Name, &m.Email, &m.Avatar, &m.UserType)
	return m, err
}

// List returns the members of a resource in joining order.
func (r *MemberRepository) List(ctx context.Context, resourceID string) ([]types.Member, error) {
	rows, err := r.db.QueryContext(ctx, r.selectMembers()+` ORDER BY m.joined_at, u.name`, resourceID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	members := []types.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) Get(ctx context.Context, resourceID, userID string) (types.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, r.selectMembers()+` AND m.member_id = $2`, resourceID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Member{}, ErrNotFound
		}
		return types.Member{}, mapError(err)
	}
	return m, nil
}

// Add inserts a member. An existing membership yields ErrConflict and an
// unknown resource or user ErrInvalidReference.
func (r *MemberRepository) Add(ctx context.Context, resourceID, userID, role string) (types.Member, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, member_id, role) VALUES ($1, $2, $3)`, r.table, r.key)
	if _, err := r.db.ExecContext(ctx, query, resourceID, userID, role); err != nil {
		return types.Member{}, mapError(err)
	}
	return r.Get(ctx, resourceID, userID)
}

// AddIfMissing inserts a member unless the user already belongs to the
// resource. It reports whether a row was added.
func (r *MemberRepository) AddIfMissing(ctx context.Context, resourceID, userID, role string) (bool, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, member_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (%s, member_id) DO NOTHING`, r.table, r.key, r.key)
	result, err := r.db.ExecContext(ctx, query, resourceID, userID, role)
	if err != nil {
		return false, mapError(err)
	}
	added, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return added > 0, nil
}

func (r *MemberRepository) UpdateRole(ctx context.Context, resourceID, userID, role string) error {
	query := fmt.Sprintf(`UPDATE %s SET role = $1 WHERE %s = $2 AND member_id = $3`, r.table, r.key)
	return execAffecting(ctx, r.db, query, role, resourceID, userID)
}

func (r *MemberRepository) Remove(ctx context.Context, resourceID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND member_id = $2`, r.table, r.key)
	return execAffecting(ctx, r.db, query, resourceID, userID)
}
