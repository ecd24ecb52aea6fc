package client

import (
	"context"
	"time"
)

// Repository persists the complete client sequence as one document.
type Repository interface {
	// Initialize creates an empty document if none exists. Safe to call on every startup.
	Initialize(ctx context.Context) error
	// Load returns the full client sequence. Unparsable content yields ErrCorruptData.
	Load(ctx context.Context) ([]Client, error)
	// Save replaces the stored document with clients. I/O failures yield ErrWrite.
	Save(ctx context.Context, clients []Client) error
}

// Observer receives notifications about store activity.
type Observer interface {
	ObserveMutation(op string, err error)
	ObserveSave(elapsed time.Duration, err error)
}
