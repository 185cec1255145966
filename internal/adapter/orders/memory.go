package orders

import (
	"context"
	"fmt"

	"supportbot/config"
	"supportbot/internal/domain"
)

// MemoryLookup serves order status from a fixed in-process table.
type MemoryLookup struct {
	orders map[string]domain.Order
}

func NewMemoryLookup(orders []domain.Order) *MemoryLookup {
	m := make(map[string]domain.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return &MemoryLookup{orders: m}
}

// FromConfig converts configured mock orders.
func FromConfig(mock []config.MockOrderConfig) []domain.Order {
	out := make([]domain.Order, 0, len(mock))
	for _, m := range mock {
		out = append(out, domain.Order{
			ID:                m.ID,
			Status:            m.Status,
			EstimatedDelivery: m.EstimatedDelivery,
		})
	}
	return out
}

// Lookup does an exact, case-sensitive match on the order ID.
func (m *MemoryLookup) Lookup(_ context.Context, orderID string) (domain.Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	return o, nil
}

// Len returns the number of known orders.
func (m *MemoryLookup) Len() int {
	return len(m.orders)
}
