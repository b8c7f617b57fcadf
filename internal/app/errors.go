package service

import (
	"fmt"

	"github.com/okian/modtier/internal/domain/model"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted      = fmt.Errorf("service not started: %w", model.ErrUnavailable)
	ErrUnknownModifier = fmt.Errorf("unknown modifier key: %w", model.ErrNotFound)
	ErrUnknownFamily   = fmt.Errorf("unknown modifier family: %w", model.ErrNotFound)
	ErrBackpressure    = fmt.Errorf("inspection queue is full: %w", model.ErrBackpressure)
	ErrInvalidItem     = fmt.Errorf("invalid item: %w", model.ErrInvalid)
)
