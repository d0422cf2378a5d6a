package comments

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyContent     = errors.New("empty comment content")
	ErrCommentNotFound  = errors.New("comment not found")
)
