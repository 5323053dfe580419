package shared

import "errors"

var (
	// ErrNotFound indicates an unknown catalog entry, family or supplier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a caller error such as an unknown unit or a malformed patch.
	ErrInvalidInput = errors.New("invalid input")
)
