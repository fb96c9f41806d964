package store

import (
	"context"
	"sync"
	"time"

	"syafa-store/internal/domain/order/model"
)

// MemoryStore keeps orders in a mutex-guarded map. Records live for the
// process lifetime only; this is the default backend.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[string]model.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]model.Order)}
}

func (s *MemoryStore) Put(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ReffID] = *order
	return nil
}

func (s *MemoryStore) Patch(_ context.Context, reffID string, patch model.Patch) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[reffID]
	if !ok {
		return nil, ErrOrderNotFound
	}

	applyPatch(&order, patch)
	order.UpdatedAt = time.Now()
	s.orders[reffID] = order

	out := order
	return &out, nil
}

func (s *MemoryStore) Get(_ context.Context, reffID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[reffID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	out := order
	return &out, nil
}

func (s *MemoryStore) TransitionStatus(_ context.Context, reffID string, from, to model.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[reffID]
	if !ok {
		return false, ErrOrderNotFound
	}
	if order.Status != from {
		return false, nil
	}

	order.Status = to
	order.UpdatedAt = time.Now()
	s.orders[reffID] = order
	return true, nil
}

func applyPatch(order *model.Order, patch model.Patch) {
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.AtlanticTransactionID != nil {
		order.AtlanticTransactionID = *patch.AtlanticTransactionID
	}
	if patch.PanelDomain != nil {
		order.PanelDomain = *patch.PanelDomain
	}
	if patch.PanelPassword != nil {
		order.PanelPassword = *patch.PanelPassword
	}
	if patch.UserID != nil {
		order.UserID = *patch.UserID
	}
	if patch.ServerID != nil {
		order.ServerID = *patch.ServerID
	}
	if patch.ErrorMessage != nil {
		order.ErrorMessage = *patch.ErrorMessage
	}
}

var _ OrderStore = (*MemoryStore)(nil)
