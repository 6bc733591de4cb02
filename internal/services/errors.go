package services

import "errors"

var (
	ErrNotConnected     = errors.New("destination not connected")
	ErrUnknownService   = errors.New("unknown destination service")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrEmptyDestination = errors.New("empty destination")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrShareNotFound    = errors.New("share not found or expired")
)
