package memory

import (
	"context"
	"sync"

	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao/order"
)

// Persister keeps the last saved snapshot in memory.
type Persister struct {
	mux      sync.Mutex
	snapshot []*model.Order
	saves    int
	err      error
}

var _ order.Persister = (*Persister)(nil)

func (p *Persister) Load(_ context.Context) ([]*model.Order, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return cloneAll(p.snapshot), nil
}

func (p *Persister) Save(_ context.Context, orders []*model.Order) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.err != nil {
		return p.err
	}
	p.snapshot = cloneAll(orders)
	p.saves++
	return nil
}

// SetErr makes every following Save fail with err; nil clears it.
func (p *Persister) SetErr(err error) {
	p.mux.Lock()
	p.err = err
	p.mux.Unlock()
}

// Saves returns the number of successful Save calls.
func (p *Persister) Saves() int {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.saves
}

// Snapshot returns a copy of the last saved orders.
func (p *Persister) Snapshot() []*model.Order {
	p.mux.Lock()
	defer p.mux.Unlock()
	return cloneAll(p.snapshot)
}

func cloneAll(orders []*model.Order) []*model.Order {
	ret := make([]*model.Order, 0, len(orders))
	for _, o := range orders {
		ret = append(ret, o.Clone())
	}
	return ret
}

func New() *Persister {
	return &Persister{}
}
