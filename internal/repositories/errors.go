package repositories

import "errors"

var (
	// ErrAlreadyAwarded is returned when an award for the same user and achievement already exists
	ErrAlreadyAwarded = errors.New("achievement already awarded")
	// ErrRoundNotFound is returned when no round matches the given ID
	ErrRoundNotFound = errors.New("round not found")
)
