package reactions

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyEmoji       = errors.New("empty emoji")
)
