package types

import "time"

// Activity kinds published on the board activity channel.
const (
	ActivityBoardCreated = "board.created"
	ActivityBoardUpdated = "board.updated"
	ActivityBoardDeleted = "board.deleted"
	ActivityListCreated  = "list.created"
	ActivityListUpdated  = "list.updated"
	ActivityListDeleted  = "list.deleted"
	ActivityCardCreated  = "card.created"
	ActivityCardUpdated  = "card.updated"
	ActivityCardDeleted  = "card.deleted"

	ActivityCardTimeTracked = "card.time_tracked"
)

// Activity records a change to something on a board. It is published to the
// message queue after the change is committed and consumed by the activity worker.
type Activity struct {
	// Kind is one of the Activity* constants.
	Kind string `json:"kind"`

	// BoardID is the board the change belongs to.
	BoardID string `json:"boardId"`

	// ResourceID is the id of the board, list or card that changed.
	ResourceID string `json:"resourceId"`

	// ActorID is the user who made the change.
	ActorID string `json:"actorId"`

	// OccurredAt is when the change was committed.
	OccurredAt time.Time `json:"occurredAt"`
}
