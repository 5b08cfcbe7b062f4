package reduce

import "errors"

var (
	ErrAlreadyStarted = errors.New("reduce: engine already started")
	ErrNotStarted     = errors.New("reduce: engine not started")
	ErrUnknownBackend = errors.New("reduce: unknown backend")
)
