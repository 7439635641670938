// internal/status/tracker.go
package status

import (
	"errors"
	"sync"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/poller"
)

// Tracker owns the health state of one device and the last result of a
// successful cycle. A failed cycle never replaces that result.
//
// Observe and Tick are driven by the device's orchestrator goroutine;
// readers may call Snapshot and LastGood from anywhere.
type Tracker struct {
	mu       sync.Mutex
	snap     Snapshot
	lastGood *poller.PollResult
}

// NewTracker starts in HealthUnknown.
func NewTracker(device string) *Tracker {
	return &Tracker{snap: Snapshot{Device: device, Health: HealthUnknown}}
}

// Observe folds one poll cycle into the state.
// changed reports whether anything worth publishing moved.
func (t *Tracker) Observe(c poller.Cycle) (snap Snapshot, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c.Err == nil {
		// Recovery / OK
		res := c.Result
		t.lastGood = &res

		changed = t.snap.Health != HealthOK ||
			t.snap.LastErrorCode != 0 ||
			t.snap.SecondsInError != 0

		t.snap.Health = HealthOK
		t.snap.LastErrorCode = 0
		t.snap.SecondsInError = 0
		t.snap.LastError = ""
		t.snap.LastSuccess = res.At

		return t.snap, changed
	}

	// Error: keep serving the cached result if there is one.
	health := HealthError
	if t.lastGood != nil {
		health = HealthStale
	}
	code := ErrorCode(c.Err)

	changed = t.snap.Health != health || t.snap.LastErrorCode != code

	t.snap.Health = health
	t.snap.LastErrorCode = code
	t.snap.LastError = c.Err.Error()

	// NOTE: seconds_in_error increments on Tick only.
	return t.snap, changed
}

// Tick advances seconds_in_error while the device is not OK.
// It is meant to be called at 1 Hz.
func (t *Tracker) Tick() (snap Snapshot, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Health == HealthOK || t.snap.Health == HealthDisabled {
		return t.snap, false
	}
	if t.snap.SecondsInError >= MaxSecondsInError {
		return t.snap, false
	}
	t.snap.SecondsInError++
	return t.snap, true
}

// Disable marks the device as no longer polled.
func (t *Tracker) Disable() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap.Health = HealthDisabled
	return t.snap
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// LastGood returns the result of the most recent successful cycle.
func (t *Tracker) LastGood() (poller.PollResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastGood == nil {
		return poller.PollResult{}, false
	}
	return *t.lastGood, true
}

// ErrorCode extracts a best-effort uint16 code from an error without
// assuming concrete types. If the error does not expose a code, it
// returns GenericErrorCode.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }
	type coderC interface{ ModbusCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}
	var c coderC
	if errors.As(err, &c) {
		return c.ModbusCode()
	}

	return GenericErrorCode
}
