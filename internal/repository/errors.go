package repository

import "errors"

// Common repository errors, returned when an update or delete matched no row.
var (
	ErrUserNotFound = errors.New("user not found")

	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = errors.New("board not found")

	ErrColumnNotFound = errors.New("column not found")

	// ErrMemberNotFound is returned when a board membership row is not found
	ErrMemberNotFound = errors.New("board member not found")
)
