package content

import "errors"

var (
	ErrLoad            = errors.New("load content failed")
	ErrInvalid         = errors.New("invalid content")
	ErrUnknownCategory = errors.New("unknown skill category")
)
