package toggles

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrToggleInFlight   = errors.New("toggle already in flight")
	ErrClosed           = errors.New("toggles closed")
)
