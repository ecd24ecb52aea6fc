package client

import "errors"

var (
	// ErrValidation indicates a required field is blank or a value is out of range.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced client or project doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrCorruptData indicates the backing store content could not be parsed.
	ErrCorruptData = errors.New("corrupt data")
	// ErrWrite indicates the backing store could not be written.
	ErrWrite = errors.New("write failed")
)
