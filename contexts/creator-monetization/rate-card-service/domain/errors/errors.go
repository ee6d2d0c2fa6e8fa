package errors

import "errors"

var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrInvalidProgramInput = errors.New("invalid program input")
	ErrProgramArchived     = errors.New("program archived")
	ErrConcurrentUpdate    = errors.New("concurrent update")
)
