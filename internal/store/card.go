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

const cardColumns = `id, board_id, list_id, column_id, title, description, type, status, priority, position,
	due_date, start_date, end_date, checklist_items, members, dependencies, assignees,
	created_by, created_at, updated_at`

// CardRepository handles persistence for cards.
type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

func scanCard(row interface{ Scan(...any) error }) (types.Card, error) {
	var card types.Card
	var checklist, assignees pq.StringArray
	err := row.Scan(
		&card.ID,
		&card.BoardID,
		&card.ListID,
		&card.ColumnID,
		&card.Title,
		&card.Description,
		&card.Type,
		&card.Status,
		&card.Priority,
		&card.Position,
		&card.DueDate,
		&card.StartDate,
		&card.EndDate,
		&checklist,
		&card.Members,
		&card.Dependencies,
		&assignees,
		&card.CreatedBy,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	card.ChecklistItems = nonNil(checklist)
	card.Assignees = nonNil(assignees)
	return card, err
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (r *CardRepository) Get(ctx context.Context, id string) (types.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND deleted_at IS NULL`
	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Card{}, ErrNotFound
		}
		return types.Card{}, mapError(err)
	}
	return card, nil
}

func (r *CardRepository) ListByBoard(ctx context.Context, boardID string) ([]types.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE board_id = $1 AND deleted_at IS NULL
		ORDER BY list_id, position, created_at`
	return r.list(ctx, query, boardID)
}

func (r *CardRepository) ListByColumn(ctx context.Context, columnID string) ([]types.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE column_id = $1 AND deleted_at IS NULL
		ORDER BY position, created_at`
	return r.list(ctx, query, columnID)
}

func (r *CardRepository) list(ctx context.Context, query string, args ...any) ([]types.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	cards := []types.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *CardRepository) Create(ctx context.Context, card types.Card) (types.Card, error) {
	now := time.Now().UTC()
	card.ID = uuid.NewString()
	card.CreatedAt = now
	card.UpdatedAt = now
	card.ChecklistItems = nonNil(card.ChecklistItems)
	card.Assignees = nonNil(card.Assignees)

	const query = `
		INSERT INTO cards (
			id, board_id, list_id, column_id, title, description, type, status, priority, position,
			due_date, start_date, end_date, checklist_items, members, dependencies, assignees,
			created_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.BoardID,
		card.ListID,
		card.ColumnID,
		card.Title,
		card.Description,
		card.Type,
		card.Status,
		card.Priority,
		card.Position,
		card.DueDate,
		card.StartDate,
		card.EndDate,
		pq.Array(card.ChecklistItems),
		card.Members,
		card.Dependencies,
		pq.Array(card.Assignees),
		card.CreatedBy,
		card.CreatedAt,
		card.UpdatedAt,
	); err != nil {
		return types.Card{}, mapError(err)
	}
	return card, nil
}

// Update writes every mutable field of card.
func (r *CardRepository) Update(ctx context.Context, card types.Card) (types.Card, error) {
	card.UpdatedAt = time.Now().UTC()
	card.ChecklistItems = nonNil(card.ChecklistItems)
	card.Assignees = nonNil(card.Assignees)

	const query = `
		UPDATE cards
		SET column_id = $1,
			title = $2,
			description = $3,
			priority = $4,
			position = $5,
			due_date = $6,
			assignees = $7,
			updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL`
	if err := execAffecting(ctx, r.db, query,
		card.ColumnID,
		card.Title,
		card.Description,
		card.Priority,
		card.Position,
		card.DueDate,
		pq.Array(card.Assignees),
		card.UpdatedAt,
		card.ID,
	); err != nil {
		return types.Card{}, err
	}
	return card, nil
}

// Delete soft-deletes a card.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE cards SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	return execAffecting(ctx, r.db, query, time.Now().UTC(), id)
}

// Reorder sets the position of each card in the column to its index in ids.
// Ids that are not in the column are skipped.
func (r *CardRepository) Reorder(ctx context.Context, columnID string, ids []string) (int64, error) {
	const query = `
		UPDATE cards AS c
		SET position = o.ord - 1,
			updated_at = $3
		FROM unnest($2::text[]) WITH ORDINALITY AS o(id, ord)
		WHERE c.id::text = o.id AND c.column_id = $1 AND c.deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, columnID, pq.Array(ids), time.Now().UTC())
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}
