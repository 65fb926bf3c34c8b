package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatapproval/service/transport"
	"github.com/viant/chatapproval/service/transport/memory"
)

func TestNewThrottle(t *testing.T) {
	loopback := memory.New()
	assert.Same(t, transport.Transport(loopback), transport.NewThrottle(loopback, 0, 0))

	throttled := transport.NewThrottle(loopback, 1, 1)
	ctx := context.Background()
	require.NoError(t, throttled.Send(ctx, "a@s.whatsapp.net", "first"))

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, throttled.Send(waitCtx, "a@s.whatsapp.net", "second"))
	assert.Len(t, loopback.Sent(), 1)
	assert.True(t, throttled.Ready(ctx))
}
