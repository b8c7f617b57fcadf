// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/modtier/internal/domain/inspect"
)

// Inspection is a queued request to classify every modifier on an item.
type Inspection struct {
	ID         string       // unique id for idempotency and report lookup
	Item       inspect.Item // item snapshot as read from the game
	ReceivedAt time.Time
}
