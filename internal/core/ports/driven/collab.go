package driven

import (
	"context"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// CollaborationChannel is an opaque pub/sub transport for mutations.
// Delivery order and retries are the channel's concern; the editor applies
// whatever arrives last.
type CollaborationChannel interface {
	// Publish broadcasts a local mutation.
	Publish(ctx context.Context, m domain.Mutation) error

	// Subscribe returns mutations published by other participants.
	// The channel is closed when ctx is cancelled or the transport closes.
	Subscribe(ctx context.Context) (<-chan domain.Mutation, error)

	// Close releases resources.
	Close() error
}
