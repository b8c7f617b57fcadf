// Package repository stores inspection reports for later retrieval.
package repository

import (
	"context"

	"github.com/okian/modtier/internal/domain/inspect"
)

// Store provides read/write access to inspection reports.
type Store interface {
	// Save stores rep under id, replacing any previous report.
	Save(ctx context.Context, id string, rep inspect.Report) error

	// Get returns the report for id.
	// Returns ErrNotFound if the id is unknown or was evicted.
	Get(ctx context.Context, id string) (inspect.Report, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) int
}
