package model

import "errors"

// Error kinds shared across layers. Concrete errors wrap one of these so
// transports can map them without knowing the producing package.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid input")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("unavailable")
)
