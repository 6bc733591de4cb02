package services

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// IDSource supplies fresh unique identifiers.
type IDSource func() string

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// NewUUID is the default IDSource.
func NewUUID() string { return uuid.NewString() }

// NewShareID returns an 8 character opaque id.
func NewShareID() string { return uuid.NewString()[:8] }
