package domain

import "errors"

// Lifecycle guard failures. Every one of these is a hard precondition: the
// action that hits it must abort with no state change, no balance change and
// no event emitted.
var (
	// ErrInvalidState is returned when an action is attempted from a
	// lifecycle state that does not permit it.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrUnauthorized is returned when the caller identity does not match
	// the role the action requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidRecipient is returned when a refund recipient does not
	// match the campaign's recorded sponsor.
	ErrInvalidRecipient = errors.New("invalid refund recipient")

	// ErrInvalidTimestamps is returned when a campaign is set live with
	// end_ts <= start_ts.
	ErrInvalidTimestamps = errors.New("invalid timestamps")

	// ErrNotYetExpired is returned when expiry is requested before the
	// clock reaches the campaign's end_ts.
	ErrNotYetExpired = errors.New("campaign has not expired yet")
)
