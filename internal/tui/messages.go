package tui

import "github.com/buker/critic/internal/review"

// MsgReviewDone is sent when a review invocation returns. The ticket ties the
// outcome to the session generation that started it.
type MsgReviewDone struct {
	Ticket review.Ticket
	Text   string
	Err    error
}

// MsgFlashExpired clears the footer notice with the matching sequence number.
type MsgFlashExpired struct {
	Seq int
}
