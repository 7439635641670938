// internal/writer/status_writer.go
package writer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/status"
)

// StatusWriter is the delivery-only contract for device status.
// It receives a snapshot and publishes it verbatim.
// No logic, no state, no interpretation.
type StatusWriter interface {
	WriteStatus(ctx context.Context, s status.Snapshot) error
}

// sessionCounter is implemented by sinks that can lose retained state on
// reconnect. Sessions moves forward on every (re)connect.
type sessionCounter interface {
	Sessions() uint64
}

// deviceStatusWriter publishes the health snapshot and availability of one device.
type deviceStatusWriter struct {
	device  string
	clients map[string]endpointClient

	// needFull forces a publish even when nothing changed.
	needFull bool
	last     status.Snapshot

	// sessions seen per sink at the last full publish
	sessions map[string]uint64
}

// NewDeviceStatusWriter builds a status writer for one device.
// Without any sink, status delivery is disabled.
func NewDeviceStatusWriter(plan Plan, clients map[string]endpointClient) (*deviceStatusWriter, bool) {
	if len(clients) == 0 {
		return nil, false
	}

	sw := &deviceStatusWriter{
		device:   plan.Device,
		clients:  clients,
		needFull: true, // re-assert on first write
		last: status.Snapshot{
			Device: plan.Device,
			Health: status.HealthUnknown,
		},
		sessions: make(map[string]uint64),
	}
	sw.sessionsMoved()
	return sw, true
}

// WriteStatus delivers a device status snapshot to every sink.
// Unchanged snapshots are skipped. On any failure, or after a sink
// reconnected, the next call publishes again regardless.
func (sw *deviceStatusWriter) WriteStatus(ctx context.Context, s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}

	if sw.sessionsMoved() {
		sw.needFull = true
	}

	if !sw.needFull && s == sw.last {
		return nil
	}

	payload, err := status.Encode(s)
	if err != nil {
		return fmt.Errorf("status writer: encode: %w", err)
	}

	var errs []string
	for _, name := range sortedNames(sw.clients) {
		if err := sw.clients[name].PublishStatus(ctx, sw.device, s.Online(), payload); err != nil {
			errs = append(errs, fmt.Sprintf("sink=%s: %v", name, err))
		}
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	sw.needFull = false
	sw.last = s
	return nil
}

// sessionsMoved records the current session of every sink and reports
// whether any of them reconnected since the last call.
func (sw *deviceStatusWriter) sessionsMoved() bool {
	moved := false
	for name, cli := range sw.clients {
		sc, ok := cli.(sessionCounter)
		if !ok {
			continue
		}
		n := sc.Sessions()
		if n != sw.sessions[name] {
			moved = true
			sw.sessions[name] = n
		}
	}
	return moved
}
