package analyses

import "errors"

var (
	// ErrNotFound indicates the analysis does not exist for the user.
	ErrNotFound = errors.New("analysis not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingText indicates neither resume text nor a readable document was supplied.
	ErrMissingText = errors.New("resume text is required")
)
