package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/taskboard-pm/apiserver/types"
)

const listColumns = `id, board_id, title, color, archived, card_order_ids, created_at, updated_at`

// ListRepository handles persistence for board lists.
type ListRepository struct {
	db *sql.DB
}

func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

func scanList(row interface{ Scan(...any) error }) (types.List, error) {
	var list types.List
	var order pq.StringArray
	err := row.Scan(
		&list.ID,
		&list.BoardID,
		&list.Title,
		&list.Color,
		&list.Archived,
		&order,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	list.CardOrderIDs = []string(order)
	if list.CardOrderIDs == nil {
		list.CardOrderIDs = []string{}
	}
	return list, err
}

func (r *ListRepository) ListByBoard(ctx context.Context, boardID string) ([]types.List, error) {
	query := `SELECT ` + listColumns + ` FROM lists
		WHERE board_id = $1 AND deleted_at IS NULL
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	lists := []types.List{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

func (r *ListRepository) Get(ctx context.Context, id string) (types.List, error) {
	query := `SELECT ` + listColumns + ` FROM lists WHERE id = $1 AND deleted_at IS NULL`
	list, err := scanList(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.List{}, ErrNotFound
		}
		return types.List{}, mapError(err)
	}
	return list, nil
}

func (r *ListRepository) Create(ctx context.Context, list types.List) (types.List, error) {
	now := time.Now().UTC()
	list.ID = uuid.NewString()
	list.CreatedAt = now
	list.UpdatedAt = now
	if list.CardOrderIDs == nil {
		list.CardOrderIDs = []string{}
	}

	const query = `
		INSERT INTO lists (id, board_id, title, color, archived, card_order_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		list.ID,
		list.BoardID,
		list.Title,
		list.Color,
		list.Archived,
		pq.Array(list.CardOrderIDs),
		list.CreatedAt,
		list.UpdatedAt,
	); err != nil {
		return types.List{}, mapError(err)
	}
	return list, nil
}

func (r *ListRepository) Update(ctx context.Context, list types.List) (types.List, error) {
	list.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE lists
		SET board_id = $1,
			title = $2,
			color = $3,
			archived = $4,
			card_order_ids = $5,
			updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL`
	if err := execAffecting(ctx, r.db, query,
		list.BoardID,
		list.Title,
		list.Color,
		list.Archived,
		pq.Array(list.CardOrderIDs),
		list.UpdatedAt,
		list.ID,
	); err != nil {
		return types.List{}, err
	}
	return list, nil
}

// Delete soft-deletes a list.
func (r *ListRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE lists SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.db, query, time.Now().UTC(), id)
}
