package contract

import "errors"

var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrUnknownTool   = errors.New("unknown tool")
	ErrValidation    = errors.New("validation failed")
)
