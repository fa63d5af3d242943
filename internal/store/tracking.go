package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard-pm/apiserver/types"
)

const timeEntryColumns = `id, card_id, user_id, action, start_time, end_time, duration_seconds, note, created_at`

// TimerTransition computes the entry to record and the new timer state from
// the current one. Returning an error aborts the change.
type TimerTransition func(timer types.CardTimer) (types.TimeEntry, types.CardTimer, error)

// TimeTrackingRepository stores card timers and their entry history.
type TimeTrackingRepository struct {
	db *sql.DB
}

func NewTimeTrackingRepository(db *sql.DB) *TimeTrackingRepository {
	return &TimeTrackingRepository{db: db}
}

// Timer returns the timer of a card. A card that was never tracked has a zero timer.
func (r *TimeTrackingRepository) Timer(ctx context.Context, cardID string) (types.CardTimer, error) {
	timer := types.CardTimer{CardID: cardID}
	err := r.db.QueryRowContext(ctx,
		`SELECT total_seconds, started_at FROM card_timers WHERE card_id = $1`, cardID,
	).Scan(&timer.TotalSeconds, &timer.StartedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return timer, nil
	case err != nil:
		return types.CardTimer{}, mapError(err)
	}
	return timer, nil
}

// Apply locks the timer of a card, runs transition on it and stores both the
// resulting entry and timer in one transaction.
func (r *TimeTrackingRepository) Apply(ctx context.Context, cardID string, transition TimerTransition) (types.TimeEntry, error) {
	var entry types.TimeEntry
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO card_timers (card_id) VALUES ($1) ON CONFLICT (card_id) DO NOTHING`, cardID,
		); err != nil {
			return mapError(err)
		}

		timer := types.CardTimer{CardID: cardID}
		if err := tx.QueryRowContext(ctx,
			`SELECT total_seconds, started_at FROM card_timers WHERE card_id = $1 FOR UPDATE`, cardID,
		).Scan(&timer.TotalSeconds, &timer.StartedAt); err != nil {
			return mapError(err)
		}

		next, updated, err := transition(timer)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		next.ID = uuid.NewString()
		next.CardID = cardID
		next.CreatedAt = now

		var note sql.NullString
		if next.Note != "" {
			note = sql.NullString{String: next.Note, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO card_time_entries (`+timeEntryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			next.ID, next.CardID, next.UserID, next.Action, next.StartTime, next.EndTime, next.Duration, note, next.CreatedAt,
		); err != nil {
			return mapError(err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE card_timers SET total_seconds = $1, started_at = $2, updated_at = $3 WHERE card_id = $4`,
			updated.TotalSeconds, updated.StartedAt, now, cardID,
		); err != nil {
			return mapError(err)
		}

		entry = next
		return nil
	})
	return entry, err
}

// History returns the entries of a card, newest first.
func (r *TimeTrackingRepository) History(ctx context.Context, cardID string) ([]types.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+timeEntryColumns+` FROM card_time_entries WHERE card_id = $1 ORDER BY start_time DESC, created_at DESC`, cardID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	entries := []types.TimeEntry{}
	for rows.Next() {
		var (
			e    types.TimeEntry
			note sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.CardID, &e.UserID, &e.Action, &e.StartTime, &e.EndTime, &e.Duration, &note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Note = note.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Reset zeroes the accumulated time of a card and closes any running session.
// The entry history is kept.
func (r *TimeTrackingRepository) Reset(ctx context.Context, cardID string) error {
	const query = `
		INSERT INTO card_timers (card_id, total_seconds, started_at, updated_at)
		VALUES ($1, 0, NULL, $2)
		ON CONFLICT (card_id) DO UPDATE
		SET total_seconds = 0, started_at = NULL, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, cardID, time.Now().UTC()); err != nil {
		return mapError(err)
	}
	return nil
}
