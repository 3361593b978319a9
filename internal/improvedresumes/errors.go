package improvedresumes

import "errors"

var (
	// ErrNotFound indicates an improved resume was not found for the user.
	ErrNotFound = errors.New("improved resume not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
