package repository

import "context"

// SlotRepository is the durable key/value medium behind the persistence adapter.
// Each slot holds one encoded collection.
type SlotRepository interface {
	// LoadSlots returns the stored value of every requested key that exists.
	// Missing keys are absent from the result, not an error.
	LoadSlots(ctx context.Context, keys []string) (map[string][]byte, error)

	// SaveSlots writes all given slots atomically: either every slot is updated or none.
	SaveSlots(ctx context.Context, slots map[string][]byte) error

	Close() error
}
