package types

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the queue engine. Handlers translate these to
// HTTP status codes. Rule-specific conflicts wrap ErrConflict so callers
// can match either the broad kind or the exact rule that failed.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")

	ErrQueueDisabled = fmt.Errorf("%w: queue is not enabled for this establishment", ErrConflict)
	ErrNotAccepting  = fmt.Errorf("%w: establishment is not currently accepting customers", ErrConflict)
	ErrAlreadyQueued = fmt.Errorf("%w: user already has an active entry at this establishment", ErrConflict)
	ErrEmptyQueue    = fmt.Errorf("%w: no customers waiting in queue", ErrConflict)
	ErrWrongStatus   = fmt.Errorf("%w: operation not allowed for current entry status", ErrConflict)
)
