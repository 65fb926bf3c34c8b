package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatapproval/model"
)

func TestPersister_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "db", "orders.db")

	persister, err := New(ctx, dbPath)
	require.NoError(t, err)

	orders, err := persister.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := model.NewOrder("INV-1", []string{"6281@s.whatsapp.net"}, "http://cb", now)
	second := model.NewOrder("INV-2", []string{"6282@s.whatsapp.net", "6283@s.whatsapp.net"}, "", now.Add(time.Minute))
	second.Recipients["6282@s.whatsapp.net"] = &model.Response{State: model.StateApproved, RespondedAt: &now}

	require.NoError(t, persister.Save(ctx, []*model.Order{first, second}))
	require.NoError(t, persister.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	orders, err = reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "INV-1", orders[0].ID)
	assert.Equal(t, "http://cb", orders[0].CallbackURL)
	assert.Equal(t, "INV-2", orders[1].ID)
	assert.Equal(t, model.StateApproved, orders[1].Recipients["6282@s.whatsapp.net"].State)
	assert.Equal(t, model.StateUnanswered, orders[1].Recipients["6283@s.whatsapp.net"].State)

	require.NoError(t, reopened.Save(ctx, []*model.Order{second}))
	orders, err = reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "INV-2", orders[0].ID)
}

func TestPersister_LoadOrder(t *testing.T) {
	ctx := context.Background()
	persister, err := New(ctx, filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	defer persister.Close()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	testCases := []struct {
		description string
		orders      []*model.Order
		expectIDs   []string
	}{
		{
			description: "oldest first",
			orders: []*model.Order{
				model.NewOrder("INV-2", []string{"6281@s.whatsapp.net"}, "", now.Add(time.Minute)),
				model.NewOrder("INV-1", []string{"6281@s.whatsapp.net"}, "", now),
			},
			expectIDs: []string{"INV-1", "INV-2"},
		},
		{
			description: "same time ordered by id",
			orders: []*model.Order{
				model.NewOrder("INV-B", []string{"6281@s.whatsapp.net"}, "", now),
				model.NewOrder("INV-A", []string{"6281@s.whatsapp.net"}, "", now),
			},
			expectIDs: []string{"INV-A", "INV-B"},
		},
		{
			description: "empty save clears",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			require.NoError(t, persister.Save(ctx, tc.orders))
			orders, err := persister.Load(ctx)
			require.NoError(t, err)
			var actual []string
			for _, o := range orders {
				actual = append(actual, o.ID)
			}
			assert.Equal(t, tc.expectIDs, actual)
		})
	}
}
