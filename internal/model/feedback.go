package model

import "time"

// Rating expresses whether a suggestion was helpful.
type Rating int

// Rating values sent by the thumbs controls.
const (
	RatingDown Rating = -1
	RatingUp   Rating = 1
)

// Valid reports whether r is one of the two accepted ratings.
func (r Rating) Valid() bool {
	return r == RatingUp || r == RatingDown
}

// Normalize maps anything at or above +1 to RatingUp and everything else to RatingDown.
func (r Rating) Normalize() Rating {
	if r >= RatingUp {
		return RatingUp
	}
	return RatingDown
}

// String returns a short label for the rating.
func (r Rating) String() string {
	if r > 0 {
		return "up"
	}
	return "down"
}

// FeedbackEvent is a single thumbs-up/down on a suggestion.
type FeedbackEvent struct {
	Habits string `json:"habits"`
	Task   string `json:"task"`
	Rating Rating `json:"rating"`
}

// FeedbackResponse is the body returned by the feedback endpoint.
type FeedbackResponse struct {
	OK bool `json:"ok"`
}

// FeedbackRecord is a stored feedback event.
type FeedbackRecord struct {
	CreatedAt time.Time
	ID        string
	FeedbackEvent
}
