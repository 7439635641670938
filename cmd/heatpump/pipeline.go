// cmd/heatpump/pipeline.go
package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/monitor"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/poller"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/status"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/writer"
)

// pipeline consumes the cycles of one device: metrics, data delivery,
// health tracking and status delivery. It owns no poller state.
type pipeline struct {
	device  string
	tracker *status.Tracker
	data    writer.Writer
	status  writer.StatusWriter // nil: status delivery disabled
	metrics *monitor.Monitor    // nil: metrics disabled
	log     logrus.FieldLogger
}

// run is the orchestrator loop (runner-owned state + 1Hz seconds ticker).
// On exit the device is published as disabled.
func (p *pipeline) run(ctx context.Context, in <-chan poller.Cycle) {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full status publish on start (identity re-assert).
	p.publishStatus(ctx, p.tracker.Snapshot())

	for {
		select {
		case <-ctx.Done():
			snap := p.tracker.Disable()
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			p.publishStatus(sctx, snap)
			cancel()
			return

		case c := <-in:
			p.handle(ctx, c)

		case <-secTicker.C:
			// Tick 1 Hz while not OK. Unchanged snapshots are offered too:
			// the status writer skips them unless a sink reconnected.
			snap, _ := p.tracker.Tick()
			p.publishStatus(ctx, snap)
		}
	}
}

func (p *pipeline) handle(ctx context.Context, c poller.Cycle) {
	if p.metrics != nil {
		p.metrics.ObserveCycle(p.device, c)
	}

	if c.Err != nil {
		// the previous result stays cached in the tracker
		p.log.WithError(c.Err).Warn("poll cycle failed")
	} else {
		// --- data delivery ---
		if err := p.data.Write(ctx, c.Result); err != nil {
			p.log.WithError(err).Error("writer error")
		}

		failed := c.Result.Failed()
		p.log.WithFields(logrus.Fields{
			"available": len(c.Result.Order) - len(failed),
			"failed":    len(failed),
			"duration":  c.Result.Duration.Round(time.Millisecond),
		}).Debug("poll cycle complete")
	}

	// --- status update (device-level truth) ---
	if snap, changed := p.tracker.Observe(c); changed {
		p.publishStatus(ctx, snap)
	}
}

func (p *pipeline) publishStatus(ctx context.Context, snap status.Snapshot) {
	if p.metrics != nil {
		p.metrics.ObserveHealth(snap)
	}
	if p.status == nil {
		return
	}
	if err := p.status.WriteStatus(ctx, snap); err != nil {
		p.log.WithError(err).Warn("status write failed")
	}
}
