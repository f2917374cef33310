package core

import "errors"

// Common errors.
var (
	ErrNotFound     = errors.New("document not found")
	ErrReadOnly     = errors.New("repository is in read-only mode")
	ErrNotWatchable = errors.New("repository does not support watching")
)
