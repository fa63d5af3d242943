package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard-pm/apiserver/types"
)

const boardColumns = `id, title, description, type, owner_id, last_activity_at, created_at, updated_at`

// BoardRepository handles persistence for boards.
type BoardRepository struct {
	db *sql.DB
}

func NewBoardRepository(db *sql.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func scanBoard(row interface{ Scan(...any) error }) (types.Board, error) {
	var board types.Board
	err := row.Scan(
		&board.ID,
		&board.Title,
		&board.Description,
		&board.Type,
		&board.OwnerID,
		&board.LastActivityAt,
		&board.CreatedAt,
		&board.UpdatedAt,
	)
	return board, err
}

// ListByOwner returns the boards owned by ownerID, most recently updated first.
func (r *BoardRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]types.Board, int, error) {
	const countQuery = `SELECT COUNT(1) FROM boards WHERE owner_id = $1 AND deleted_at IS NULL`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT ` + boardColumns + ` FROM boards
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	boards := make([]types.Board, 0, limit)
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, 0, err
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return boards, total, nil
}

func (r *BoardRepository) Get(ctx context.Context, id string) (types.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE id = $1 AND deleted_at IS NULL`
	board, err := scanBoard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Board{}, ErrNotFound
		}
		return types.Board{}, mapError(err)
	}
	return board, nil
}

func (r *BoardRepository) Create(ctx context.Context, board types.Board) (types.Board, error) {
	now := time.Now().UTC()
	board.ID = uuid.NewString()
	board.CreatedAt = now
	board.UpdatedAt = now

	const query = `
		INSERT INTO boards (id, title, description, type, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		board.ID,
		board.Title,
		board.Description,
		board.Type,
		board.OwnerID,
		board.CreatedAt,
		board.UpdatedAt,
	); err != nil {
		return types.Board{}, mapError(err)
	}
	return board, nil
}

func (r *BoardRepository) Update(ctx context.Context, board types.Board) (types.Board, error) {
	board.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE boards
		SET title = $1,
			description = $2,
			type = $3,
			updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`
	if err := execAffecting(ctx, r.db, query,
		board.Title,
		board.Description,
		board.Type,
		board.UpdatedAt,
		board.ID,
	); err != nil {
		return types.Board{}, err
	}
	return board, nil
}

// Delete soft-deletes a board.
func (r *BoardRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE boards SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.db, query, time.Now().UTC(), id)
}

// Touch moves last_activity_at forward to at. Older timestamps are ignored so
// out-of-order deliveries cannot move it back.
func (r *BoardRepository) Touch(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE boards
		SET last_activity_at = $1
		WHERE id = $2 AND (last_activity_at IS NULL OR last_activity_at < $1)`
	if _, err := r.db.ExecContext(ctx, query, at.UTC(), id); err != nil {
		return mapError(err)
	}
	return nil
}
