package types

import "time"

// Time tracking actions.
const (
	TrackStart  = "start"
	TrackPause  = "pause"
	TrackResume = "resume"
	TrackStop   = "stop"
)

// TimeEntry is one recorded time tracking action on a card. Pause and stop
// entries that close a running session carry its end time and duration.
type TimeEntry struct {
	ID        string     `json:"id" db:"id"`
	CardID    string     `json:"cardId" db:"card_id"`
	UserID    string     `json:"userId" db:"user_id"`
	Action    string     `json:"action" db:"action"`
	StartTime time.Time  `json:"startTime" db:"start_time"`
	EndTime   *time.Time `json:"endTime" db:"end_time"`

	// Duration is in seconds.
	Duration int64  `json:"duration" db:"duration_seconds"`
	Note     string `json:"note,omitempty" db:"note"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CardTimer is the accumulated tracked time of a card.
type CardTimer struct {
	CardID       string     `json:"cardId" db:"card_id"`
	TotalSeconds int64      `json:"totalTimeSpent" db:"total_seconds"`
	StartedAt    *time.Time `json:"trackingStartTime" db:"started_at"`
}

// Running reports whether a session is open.
func (t CardTimer) Running() bool {
	return t.StartedAt != nil
}

// TimeSummary is the tracked time of a card with its history.
type TimeSummary struct {
	TotalTimeSpent     int64       `json:"totalTimeSpent"`
	IsTracking         bool        `json:"isTracking"`
	TrackingStartTime  *time.Time  `json:"trackingStartTime"`
	CurrentSessionTime int64       `json:"currentSessionTime"`
	History            []TimeEntry `json:"history"`
}
