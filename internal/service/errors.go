package service

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("action is not allowed for this user")
	ErrBackendUnavailable = errors.New("backend is unavailable")
	ErrVoteConflict       = errors.New("item is being voted on concurrently, try again")
)
