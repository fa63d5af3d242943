package services

import (
	"context"
	"time"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/store"
	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

// TimeTrackingRepository defines persistence operations for card timers.
type TimeTrackingRepository interface {
	Timer(ctx context.Context, cardID string) (types.CardTimer, error)
	Apply(ctx context.Context, cardID string, transition store.TimerTransition) (types.TimeEntry, error)
	History(ctx context.Context, cardID string) ([]types.TimeEntry, error)
	Reset(ctx context.Context, cardID string) error
}

// TimeTrackingService records work sessions on cards.
type TimeTrackingService struct {
	cards  CardRepository
	repo   TimeTrackingRepository
	events ActivityPublisher
	now    func() time.Time
}

func NewTimeTrackingService(cards CardRepository, repo TimeTrackingRepository, events ActivityPublisher) *TimeTrackingService {
	return &TimeTrackingService{cards: cards, repo: repo, events: events, now: time.Now}
}

// Track applies a start, pause, resume or stop action to the card's timer and
// records it. Pause and stop close the running session and add its length to
// the card total; without a running session they are recorded with no duration.
func (s *TimeTrackingService) Track(ctx context.Context, userID string, in validation.TrackTime) (types.TimeEntry, error) {
	card, err := s.card(ctx, *in.CardID)
	if err != nil {
		return types.TimeEntry{}, err
	}

	now := s.now().UTC()
	entry, err := s.repo.Apply(ctx, card.ID, func(timer types.CardTimer) (types.TimeEntry, types.CardTimer, error) {
		entry, next, err := advanceTimer(timer, *in.Action, now)
		entry.UserID = userID
		if in.Note != nil {
			entry.Note = *in.Note
		}
		return entry, next, err
	})
	if err != nil {
		return types.TimeEntry{}, timerResource.translate(err)
	}

	if s.events != nil {
		s.events.Publish(ctx, types.Activity{
			Kind:       types.ActivityCardTimeTracked,
			BoardID:    card.BoardID,
			ResourceID: card.ID,
			ActorID:    userID,
		})
	}
	return entry, nil
}

func advanceTimer(timer types.CardTimer, action string, now time.Time) (types.TimeEntry, types.CardTimer, error) {
	entry := types.TimeEntry{Action: action, StartTime: now}
	switch action {
	case types.TrackStart, types.TrackResume:
		if timer.Running() {
			return entry, timer, apierr.Conflict("Time tracking is already running for this card")
		}
		started := now
		timer.StartedAt = &started

	case types.TrackPause, types.TrackStop:
		if !timer.Running() {
			break
		}
		elapsed := sessionSeconds(*timer.StartedAt, now)
		ended := now
		entry.StartTime = *timer.StartedAt
		entry.EndTime = &ended
		entry.Duration = elapsed
		timer.TotalSeconds += elapsed
		timer.StartedAt = nil

	default:
		return entry, timer, apierr.Unprocessable(`"action" must be one of [start, pause, resume, stop]`)
	}
	return entry, timer, nil
}

func sessionSeconds(from, to time.Time) int64 {
	if to.Before(from) {
		return 0
	}
	return int64(to.Sub(from) / time.Second)
}

// History returns the recorded actions of a card, newest first.
func (s *TimeTrackingService) History(ctx context.Context, cardID string) ([]types.TimeEntry, error) {
	if _, err := s.card(ctx, cardID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, cardID)
}

// Summary returns the card total, the length of the running session if any,
// and the history.
func (s *TimeTrackingService) Summary(ctx context.Context, cardID string) (types.TimeSummary, error) {
	if _, err := s.card(ctx, cardID); err != nil {
		return types.TimeSummary{}, err
	}
	timer, err := s.repo.Timer(ctx, cardID)
	if err != nil {
		return types.TimeSummary{}, err
	}
	history, err := s.repo.History(ctx, cardID)
	if err != nil {
		return types.TimeSummary{}, err
	}

	summary := types.TimeSummary{
		TotalTimeSpent:    timer.TotalSeconds,
		IsTracking:        timer.Running(),
		TrackingStartTime: timer.StartedAt,
		History:           history,
	}
	if timer.Running() {
		summary.CurrentSessionTime = sessionSeconds(*timer.StartedAt, s.now().UTC())
	}
	return summary, nil
}

// Reset zeroes the card total and stops any running session.
func (s *TimeTrackingService) Reset(ctx context.Context, cardID string) error {
	if _, err := s.card(ctx, cardID); err != nil {
		return err
	}
	return timerResource.translate(s.repo.Reset(ctx, cardID))
}

func (s *TimeTrackingService) card(ctx context.Context, id string) (types.Card, error) {
	card, err := s.cards.Get(ctx, id)
	return card, cardResource.translate(err)
}
