package errors

import "errors"

var (
	ErrClipNotFound            = errors.New("clip not found")
	ErrInvalidClipInput        = errors.New("invalid clip input")
	ErrInvalidViews            = errors.New("reported views must not be negative")
	ErrInvalidStatusTransition = errors.New("invalid clip status transition")
	ErrUnauthorizedActor       = errors.New("actor is not authorized")
	ErrDuplicateContent        = errors.New("duplicate content for program")
	ErrUnsupportedLink         = errors.New("unsupported clip link")
	ErrProgramNotFound         = errors.New("program not found")
	ErrProgramNotActive        = errors.New("program is not accepting submissions")
	ErrConcurrentUpdate        = errors.New("concurrent update detected")
)
