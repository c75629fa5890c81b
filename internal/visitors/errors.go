package visitors

import "errors"

var (
	ErrOpen      = errors.New("open visitor database failed")
	ErrQueueFull = errors.New("visitor queue full")
)
