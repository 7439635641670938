// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// DefaultInterval is used when Config.Interval is zero.
const DefaultInterval = 30 * time.Second

// Run polls once immediately, then on every tick, and emits one Cycle per
// poll on out. One goroutine per device. No overlap. No retries.
// Each poll is bounded by PollTimeout (or the interval when unset).
// The session is closed when ctx ends.
func (p *Poller) Run(ctx context.Context, out chan<- Cycle) {
	interval := p.cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timeout := p.cfg.PollTimeout
	if timeout <= 0 {
		timeout = interval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer p.Close()

	p.pollAndEmit(ctx, out, timeout)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollAndEmit(ctx, out, timeout)
		}
	}
}

func (p *Poller) pollAndEmit(ctx context.Context, out chan<- Cycle, timeout time.Duration) {
	pctx, cancel := context.WithTimeout(ctx, timeout)
	res, err := p.Refresh(pctx)
	cancel()

	// shutdown: nobody is waiting for this cycle
	if ctx.Err() != nil {
		return
	}

	select {
	case out <- Cycle{Result: res, Err: err}:
	case <-ctx.Done():
	}
}
