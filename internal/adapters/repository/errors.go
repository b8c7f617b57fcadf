package repository

import (
	"fmt"

	"github.com/okian/modtier/internal/domain/model"
)

// Sentinel kinds for repository errors.
var (
	ErrNotFound  = fmt.Errorf("report not found: %w", model.ErrNotFound)
	ErrInvalidID = fmt.Errorf("invalid report id: %w", model.ErrInvalid)
)
