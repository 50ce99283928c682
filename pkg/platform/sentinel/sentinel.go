package sentinel

import "errors"

// Infrastructure facts returned by stores and remote clients, optionally wrapped.
// Services translate them into domain errors; handlers never see them directly.
//
// - ErrNotFound: key or remote resource does not exist
// - ErrConflict: the write lost against a concurrent change
// - ErrInvalidState: the resource is in the wrong state for the request
// - ErrUnavailable: storage or the backend cannot be reached right now
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
