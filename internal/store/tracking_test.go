package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-pm/apiserver/types"
)

func TestTimeTrackingRepository_TimerNeverTracked(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM card_timers WHERE card_id = \\$1").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"total_seconds", "started_at"}))

	timer, err := NewTimeTrackingRepository(db).Timer(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, types.CardTimer{CardID: "c1"}, timer)
	assert.False(t, timer.Running())
}

func TestTimeTrackingRepository_ApplyStoresEntryAndTimer(t *testing.T) {
	db, mock := newMock(t)
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	stopped := started.Add(90 * time.Second)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO card_timers \\(card_id\\)").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"total_seconds", "started_at"}).AddRow(int64(30), started))
	mock.ExpectExec("INSERT INTO card_time_entries").
		WithArgs(sqlmock.AnyArg(), "c1", "u1", types.TrackStop, started, &stopped, int64(90), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE card_timers").
		WithArgs(int64(120), nil, sqlmock.AnyArg(), "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var seen types.CardTimer
	entry, err := NewTimeTrackingRepository(db).Apply(context.Background(), "c1", func(timer types.CardTimer) (types.TimeEntry, types.CardTimer, error) {
		seen = timer
		entry := types.TimeEntry{UserID: "u1", Action: types.TrackStop, StartTime: started, EndTime: &stopped, Duration: 90}
		return entry, types.CardTimer{CardID: "c1", TotalSeconds: timer.TotalSeconds + 90}, nil
	})
	require.NoError(t, err)

	assert.EqualValues(t, 30, seen.TotalSeconds)
	require.NotNil(t, seen.StartedAt)
	assert.True(t, started.Equal(*seen.StartedAt))
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "c1", entry.CardID)
}

func TestTimeTrackingRepository_ApplyRollsBackRejectedTransition(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO card_timers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"total_seconds", "started_at"}).AddRow(int64(0), nil))
	mock.ExpectRollback()

	rejected := errors.New("already running")
	_, err := NewTimeTrackingRepository(db).Apply(context.Background(), "c1", func(types.CardTimer) (types.TimeEntry, types.CardTimer, error) {
		return types.TimeEntry{}, types.CardTimer{}, rejected
	})
	assert.ErrorIs(t, err, rejected)
}

func TestTimeTrackingRepository_ApplyUnknownCard(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO card_timers").WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	_, err := NewTimeTrackingRepository(db).Apply(context.Background(), "c404", func(types.CardTimer) (types.TimeEntry, types.CardTimer, error) {
		t.Fatal("transition must not run")
		return types.TimeEntry{}, types.CardTimer{}, nil
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestTimeTrackingRepository_HistoryNewestFirst(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	end := now.Add(time.Minute)
	mock.ExpectQuery("FROM card_time_entries WHERE card_id = \\$1 ORDER BY start_time DESC").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "user_id", "action", "start_time", "end_time", "duration_seconds", "note", "created_at"}).
			AddRow("e2", "c1", "u1", "stop", now, end, int64(60), "done for today", end).
			AddRow("e1", "c1", "u1", "start", now, nil, int64(0), nil, now))

	entries, err := NewTimeTrackingRepository(db).History(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "done for today", entries[0].Note)
	assert.EqualValues(t, 60, entries[0].Duration)
	assert.Nil(t, entries[1].EndTime)
	assert.Empty(t, entries[1].Note)
}

func TestTimeTrackingRepository_Reset(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("ON CONFLICT \\(card_id\\) DO UPDATE").
		WithArgs("c1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewTimeTrackingRepository(db).Reset(context.Background(), "c1"))
}
