package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

func newTrackingFixture(now *time.Time) (*TimeTrackingService, *fakeTimers, *recordedEvents) {
	cards := &fakeCards{cards: map[string]types.Card{"c1": {ID: "c1", BoardID: "b1"}}}
	timers := newFakeTimers()
	events := &recordedEvents{}
	svc := NewTimeTrackingService(cards, timers, events)
	svc.now = func() time.Time { return *now }
	return svc, timers, events
}

func track(action string) validation.TrackTime {
	return validation.TrackTime{CardID: ptr("c1"), Action: ptr(action)}
}

func TestTimeTracking_StartThenStop(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc, timers, events := newTrackingFixture(&now)
	ctx := context.Background()

	started, err := svc.Track(ctx, "u1", track(types.TrackStart))
	require.NoError(t, err)
	assert.Equal(t, now, started.StartTime)
	assert.Nil(t, started.EndTime)

	now = now.Add(90*time.Second + 400*time.Millisecond)
	in := track(types.TrackStop)
	in.Note = ptr("reviewed")
	stopped, err := svc.Track(ctx, "u1", in)
	require.NoError(t, err)
	assert.EqualValues(t, 90, stopped.Duration)
	assert.Equal(t, started.StartTime, stopped.StartTime)
	require.NotNil(t, stopped.EndTime)
	assert.Equal(t, "reviewed", stopped.Note)
	assert.Equal(t, "u1", stopped.UserID)

	assert.EqualValues(t, 90, timers.timers["c1"].TotalSeconds)
	assert.False(t, timers.timers["c1"].Running())

	require.Len(t, events.activities, 2)
	assert.Equal(t, types.ActivityCardTimeTracked, events.activities[1].Kind)
	assert.Equal(t, "b1", events.activities[1].BoardID)
}

func TestTimeTracking_DoubleStart(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc, _, events := newTrackingFixture(&now)

	_, err := svc.Track(context.Background(), "u1", track(types.TrackStart))
	require.NoError(t, err)

	_, err = svc.Track(context.Background(), "u1", track(types.TrackResume))
	assertAPIError(t, err, http.StatusConflict, "Time tracking is already running for this card")
	assert.Len(t, events.activities, 1)
}

func TestTimeTracking_PauseWithoutSession(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc, timers, _ := newTrackingFixture(&now)

	entry, err := svc.Track(context.Background(), "u1", track(types.TrackPause))
	require.NoError(t, err)
	assert.Zero(t, entry.Duration)
	assert.Zero(t, timers.timers["c1"].TotalSeconds)
}

func TestTimeTracking_SummaryAndReset(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTrackingFixture(&now)
	ctx := context.Background()

	_, err := svc.Track(ctx, "u1", track(types.TrackStart))
	require.NoError(t, err)
	now = now.Add(time.Minute)
	_, err = svc.Track(ctx, "u1", track(types.TrackPause))
	require.NoError(t, err)
	_, err = svc.Track(ctx, "u1", track(types.TrackResume))
	require.NoError(t, err)
	now = now.Add(30 * time.Second)

	summary, err := svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 60, summary.TotalTimeSpent)
	assert.True(t, summary.IsTracking)
	assert.EqualValues(t, 30, summary.CurrentSessionTime)
	require.Len(t, summary.History, 3)
	assert.Equal(t, types.TrackResume, summary.History[0].Action)

	require.NoError(t, svc.Reset(ctx, "c1"))
	summary, err = svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalTimeSpent)
	assert.False(t, summary.IsTracking)
	assert.Len(t, summary.History, 3)
}

func TestTimeTracking_UnknownCard(t *testing.T) {
	now := time.Now()
	svc, _, _ := newTrackingFixture(&now)

	_, err := svc.Track(context.Background(), "u1", validation.TrackTime{CardID: ptr("c2"), Action: ptr(types.TrackStart)})
	assertAPIError(t, err, http.StatusNotFound, "Card not found")

	_, err = svc.History(context.Background(), "c2")
	assertAPIError(t, err, http.StatusNotFound, "Card not found")
}
