package order

import (
	"context"

	"github.com/viant/chatapproval/model"
)

// Persister durably stores the full set of active orders. Save replaces the
// previously stored snapshot atomically.
type Persister interface {
	Load(ctx context.Context) ([]*model.Order, error)

	Save(ctx context.Context, orders []*model.Order) error
}
