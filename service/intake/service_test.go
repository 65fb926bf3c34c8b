package intake

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatapproval/internal/logging"
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao/order"
	"github.com/viant/chatapproval/service/dao/order/memory"
	tmemory "github.com/viant/chatapproval/service/transport/memory"
)

type fixture struct {
	service   *Service
	store     *order.Store
	persister *memory.Persister
	transport *tmemory.Transport
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{persister: memory.New(), transport: tmemory.New()}
	f.store = order.New(f.persister)
	service, err := New(WithStore(f.store), WithTransport(f.transport), WithLogger(logging.Discard()))
	require.NoError(t, err)
	f.service = service
	return f
}

func TestService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	handle, err := f.service.CreateOrder(ctx, &Request{
		OrderID:     "INV-1",
		Recipients:  []string{"+62 811-11", "6282222@c.us", "6281111"},
		Message:     "Please approve INV-1",
		CallbackURL: "http://callback",
		Attachments: &Attachments{
			HotelTicket: "https://cdn/hotel.png",
			Identity:    "https://cdn/passport.png",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-1", handle.OrderID)
	assert.Equal(t, []string{"6281111@s.whatsapp.net", "6282222@s.whatsapp.net"}, handle.Recipients)
	assert.Equal(t, model.StatusPending, handle.Status)

	sent := f.transport.SentTo("6281111@s.whatsapp.net")
	require.Len(t, sent, 3)
	assert.Equal(t, "Please approve INV-1", sent[0].Text)
	assert.Equal(t, "https://cdn/passport.png", sent[1].Image.URL)
	assert.Equal(t, "Passport", sent[1].Image.Caption)
	assert.Equal(t, "https://cdn/hotel.png", sent[2].Image.URL)
	assert.Len(t, f.transport.SentTo("6282222@s.whatsapp.net"), 3)

	stored, err := f.store.Load(ctx, "INV-1")
	require.NoError(t, err)
	assert.Equal(t, "http://callback", stored.CallbackURL)
	assert.True(t, stored.Awaits("6281111@s.whatsapp.net"))
	assert.True(t, stored.Awaits("6282222@s.whatsapp.net"))

	snapshot := f.persister.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "INV-1", snapshot[0].ID)
}

func TestService_CreateOrder_Invalid(t *testing.T) {
	testCases := []struct {
		description string
		request     *Request
	}{
		{description: "nil request"},
		{description: "missing id", request: &Request{Recipients: []string{"6281"}, Message: "m"}},
		{description: "missing recipients", request: &Request{OrderID: "INV-1", Message: "m"}},
		{description: "missing message", request: &Request{OrderID: "INV-1", Recipients: []string{"6281"}, Message: "  "}},
		{description: "id with whitespace", request: &Request{OrderID: "INV 1", Recipients: []string{"6281"}, Message: "m"}},
		{description: "invalid recipient", request: &Request{OrderID: "INV-1", Recipients: []string{"john"}, Message: "m"}},
		{description: "unreadable attachment", request: &Request{OrderID: "INV-1", Recipients: []string{"6281"}, Message: "m", Attachments: &Attachments{Identity: "/nonexistent/passport.png"}}},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.CreateOrder(context.Background(), tc.request)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Empty(t, f.transport.Sent())
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestService_CreateOrder_TransportUnavailable(t *testing.T) {
	f := newFixture(t)
	f.transport.SetReady(false)
	_, err := f.service.CreateOrder(context.Background(), &Request{OrderID: "INV-1", Recipients: []string{"6281"}, Message: "m"})
	assert.ErrorIs(t, err, ErrTransportUnavailable)
	assert.Equal(t, 0, f.store.Len())
}

func TestService_CreateOrder_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	request := &Request{OrderID: "INV-1", Recipients: []string{"6281"}, Message: "m"}
	_, err := f.service.CreateOrder(ctx, request)
	require.NoError(t, err)
	f.transport.Reset()

	_, err = f.service.CreateOrder(ctx, request)
	assert.ErrorIs(t, err, ErrOrderExists)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, f.transport.Sent())
}

func TestService_CreateOrder_CaseInsensitiveDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.service.CreateOrder(ctx, &Request{OrderID: "INV-1", Recipients: []string{"6281"}, Message: "m"})
	require.NoError(t, err)
	f.transport.Reset()

	testCases := []struct {
		description string
		id          string
	}{
		{description: "lower case", id: "inv-1"},
		{description: "mixed case", id: "Inv-1"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := f.service.CreateOrder(ctx, &Request{OrderID: tc.id, Recipients: []string{"6281"}, Message: "m"})
			assert.ErrorIs(t, err, ErrOrderExists)
			assert.Empty(t, f.transport.Sent())
			assert.Equal(t, 1, f.store.Len())
		})
	}
}

func TestService_CreateOrder_PartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.transport.FailWhen(func(out *tmemory.Outbound) error {
		if out.To == "6282@s.whatsapp.net" && out.Image != nil {
			return errors.New("media upload failed")
		}
		return nil
	})

	_, err := f.service.CreateOrder(ctx, &Request{
		OrderID:     "INV-2",
		Recipients:  []string{"6281", "6282"},
		Message:     "m",
		Attachments: &Attachments{FlightTicket: "https://cdn/flight.png"},
	})
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 0, f.persister.Saves())

	f.transport.FailWhen(nil)
	_, err = f.service.CreateOrder(ctx, &Request{OrderID: "INV-2", Recipients: []string{"6281", "6282"}, Message: "m"})
	assert.NoError(t, err, "a retry after a failed create is accepted")
}

func TestService_CreateOrder_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.persister.SetErr(errors.New("disk full"))

	_, err := f.service.CreateOrder(ctx, &Request{OrderID: "INV-3", Recipients: []string{"6281"}, Message: "m"})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 0, f.store.Len())
}

func TestService_CreateOrder_ConcurrentSameID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	var mux sync.Mutex
	succeeded, rejected := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateOrder(ctx, &Request{OrderID: "INV-4", Recipients: []string{"6281"}, Message: "m"})
			mux.Lock()
			defer mux.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, ErrOrderExists) {
				rejected++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 7, rejected)
	assert.Equal(t, 1, f.store.Len())
}
