package validation

// TrackTime is the payload of POST /tracking.
type TrackTime struct {
	CardID *string `json:"cardId" validate:"required,nonempty,uuid_rule"`
	Action *string `json:"action" validate:"required,oneof=start pause resume stop"`
	Note   *string `json:"note" validate:"omitnil,max=1000"`
}

// CardParams identifies a card by the {cardId} path segment.
type CardParams struct {
	CardID string `json:"cardId" validate:"required,uuid_rule"`
}
