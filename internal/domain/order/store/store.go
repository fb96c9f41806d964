package store

import (
	"context"
	"errors"

	"syafa-store/internal/domain/order/model"
)

// ErrOrderNotFound is returned for lookups and patches on unknown
// reference ids.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore owns all Order records. The lifecycle service is the only
// writer; reads are by reference id only.
type OrderStore interface {
	// Put inserts or overwrites an order by reference id.
	Put(ctx context.Context, order *model.Order) error

	// Patch merge-updates an existing order and returns the updated
	// record, or ErrOrderNotFound.
	Patch(ctx context.Context, reffID string, patch model.Patch) (*model.Order, error)

	// Get returns the order, or ErrOrderNotFound.
	Get(ctx context.Context, reffID string) (*model.Order, error)

	// TransitionStatus atomically moves the order from one status to
	// another. It returns false when the current status is not `from`,
	// which makes it the sole gate against concurrent webhook
	// deliveries racing into provisioning.
	TransitionStatus(ctx context.Context, reffID string, from, to model.Status) (bool, error)
}
