package port

import (
	"context"

	"supportbot/internal/domain"
)

// Retriever turns a raw user query into a result signal.
type Retriever interface {
	// Retrieve never fails: per-query conditions are encoded in the Result.
	Retrieve(ctx context.Context, query string) domain.Result
}

// OrderLookup resolves an order ID to its status.
type OrderLookup interface {
	// Lookup returns domain.ErrOrderNotFound for unknown IDs and
	// domain.ErrServiceUnavailable when the backing service cannot answer.
	Lookup(ctx context.Context, orderID string) (domain.Order, error)
}
