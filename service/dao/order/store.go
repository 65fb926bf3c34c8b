package order

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao"
	"github.com/viant/chatapproval/service/dao/criteria"
	"github.com/viant/chatapproval/service/dao/store"
)

// Store keeps active orders in memory and flushes them to a Persister.
type Store struct {
	*store.MemoryStore[string, model.Order]
	persister Persister
	txMux     sync.Mutex
}

var _ dao.Service[string, model.Order] = (*Store)(nil)

// Update runs fn while holding the store-wide mutation lock. Every
// read-modify-flush sequence goes through Update.
func (s *Store) Update(fn func() error) error {
	s.txMux.Lock()
	defer s.txMux.Unlock()
	return fn()
}

// Snapshot returns clones of the active orders matching parameters. It holds
// the mutation lock so no reply can change an order while it is copied.
func (s *Store) Snapshot(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Order, error) {
	s.txMux.Lock()
	defer s.txMux.Unlock()
	orders, err := s.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Order, 0, len(orders))
	for _, o := range orders {
		ret = append(ret, o.Clone())
	}
	return ret, nil
}

// Lookup returns the active order with the given id, falling back to a
// case-insensitive match. Among case-insensitive matches the oldest order
// wins, then the lowest id.
func (s *Store) Lookup(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	order, err := s.Load(ctx, id)
	if err == nil {
		return order, nil
	}
	orders, lErr := s.List(ctx)
	if lErr != nil {
		return nil, lErr
	}
	for _, candidate := range orders {
		if strings.EqualFold(candidate.ID, id) {
			return candidate, nil
		}
	}
	return nil, err
}

// Flush writes a snapshot of all active orders.
func (s *Store) Flush(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	orders, err := s.List(ctx)
	if err != nil {
		return err
	}
	snapshot := make([]*model.Order, 0, len(orders))
	for _, o := range orders {
		snapshot = append(snapshot, o.Clone())
	}
	if err = s.persister.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to flush %d orders: %w", len(snapshot), err)
	}
	return nil
}

// Restore replaces active orders with the persisted snapshot and returns the
// number of orders loaded.
func (s *Store) Restore(ctx context.Context) (int, error) {
	if s.persister == nil {
		return 0, nil
	}
	orders, err := s.persister.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to restore orders: %w", err)
	}
	s.Reset(orders)
	return s.Len(), nil
}

// New creates an order store backed by persister; a nil persister keeps
// orders in memory only.
func New(persister Persister) *Store {
	return &Store{
		MemoryStore: store.NewMemoryStore[string, model.Order](
			func(o *model.Order) string { return o.ID },
			store.WithFilter[string, model.Order](criteria.Matches),
			store.WithOrder[string, model.Order](func(a, b *model.Order) bool {
				if a.CreatedAt.Equal(b.CreatedAt) {
					return a.ID < b.ID
				}
				return a.CreatedAt.Before(b.CreatedAt)
			}),
		),
		persister: persister,
	}
}
