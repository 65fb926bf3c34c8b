package transport

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Throttle limits the outbound send rate of a Transport
type Throttle struct {
	Transport
	limiter *rate.Limiter
}

func (t *Throttle) Send(ctx context.Context, to, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttled send to %s: %w", to, err)
	}
	return t.Transport.Send(ctx, to, text)
}

func (t *Throttle) SendImage(ctx context.Context, to string, image *Image) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttled image send to %s: %w", to, err)
	}
	return t.Transport.SendImage(ctx, to, image)
}

// NewThrottle wraps transport with a limiter allowing perSecond sends with
// the given burst. A non-positive rate returns transport unchanged.
func NewThrottle(transport Transport, perSecond float64, burst int) Transport {
	if perSecond <= 0 {
		return transport
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{Transport: transport, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}
