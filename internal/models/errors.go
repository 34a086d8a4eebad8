package models

import "errors"

// Error taxonomy for the bot core. Every error is recovered in the
// conversation (re-render, re-prompt or warning); only startup
// configuration errors are fatal to the process.
var (
	// ErrUnauthorized means the caller lacks the role the operation requires.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means a stale reference to a deleted catalog entry or admin.
	ErrNotFound = errors.New("not found")
	// ErrValidation means malformed free-text input.
	ErrValidation = errors.New("invalid input")
	// ErrPersistence means a store write failed; the in-memory change is kept.
	ErrPersistence = errors.New("persistence failed")
	// ErrPublish means the outbound channel send failed; the draft is kept.
	ErrPublish = errors.New("publish failed")
)
