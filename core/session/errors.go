package session

import "errors"

var (
	// ErrNotFound is returned when a session does not exist in the store.
	// Callers must treat ErrNotFound and a Closed session identically:
	// neither can accept claims.
	ErrNotFound = errors.New("session not found")
	// ErrMissingPresenter is returned when opening a session without a presenter identity.
	ErrMissingPresenter = errors.New("presenter identity is required")
	// ErrSaveSession is returned when persisting a session fails.
	ErrSaveSession = errors.New("failed to save session")
)
