package apperror

import "errors"

var (
	ErrCellOutOfRange  = errors.New("cell index out of range")
	ErrInvalidMark     = errors.New("invalid mark")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionConflict = errors.New("session changed concurrently")
)
