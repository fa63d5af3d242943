package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberRowColumns = []string{"member_id", "role", "joined_at", "name", "email", "avatar", "type"}

func TestMemberRepository_ListUsesResourceTable(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("FROM board_members m .* WHERE m.board_id = \\$1 ORDER BY m.joined_at").
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows(memberRowColumns).
			AddRow("u1", "owner", now, "Ada", "ada@example.com", "", "admin").
			AddRow("u2", "viewer", now, "Linus", "linus@example.com", "", "staff"))

	members, err := NewBoardMemberRepository(db).List(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "owner", members[0].Role)
	assert.Equal(t, "staff", members[1].UserType)
}

func TestMemberRepository_AddConflict(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO card_members \\(card_id, member_id, role\\)").
		WithArgs("c1", "u1", "member").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := NewCardMemberRepository(db).Add(context.Background(), "c1", "u1", "member")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemberRepository_AddReturnsJoinedMember(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO board_members").
		WithArgs("b1", "u2", "admin").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("AND m.member_id = \\$2").
		WithArgs("b1", "u2").
		WillReturnRows(sqlmock.NewRows(memberRowColumns).AddRow("u2", "admin", now, "Linus", "linus@example.com", "", "staff"))

	member, err := NewBoardMemberRepository(db).Add(context.Background(), "b1", "u2", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Linus", member.Name)
}

func TestMemberRepository_AddIfMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("ON CONFLICT \\(card_id, member_id\\) DO NOTHING").
		WithArgs("c1", "u1", "member").
		WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := NewCardMemberRepository(db).AddIfMissing(context.Background(), "c1", "u1", "member")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestMemberRepository_RemoveMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM board_members WHERE board_id = \\$1 AND member_id = \\$2").
		WithArgs("b1", "u9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewBoardMemberRepository(db).Remove(context.Background(), "b1", "u9")
	assert.ErrorIs(t, err, ErrNotFound)
}
