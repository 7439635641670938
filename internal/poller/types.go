// internal/poller/types.go
package poller

import (
	"time"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/decode"
)

// Reading is the outcome for one descriptor in one cycle.
// Exactly one of Value (valid) or Err is set.
type Reading struct {
	Value decode.Value
	Err   error
}

// Available reports whether the descriptor produced a value this cycle.
func (r Reading) Available() bool { return r.Err == nil && r.Value.IsValid() }

// PollResult is a snapshot produced by one poll cycle.
// A new one is built for every cycle; nothing is carried over.
type PollResult struct {
	Device   string
	At       time.Time
	Duration time.Duration

	// Readings has one entry per catalog descriptor, keyed by name.
	Readings map[string]Reading

	// Order is the catalog order of the keys in Readings.
	Order []string
}

// Values returns only the available readings.
func (r PollResult) Values() map[string]decode.Value {
	out := make(map[string]decode.Value, len(r.Readings))
	for name, rd := range r.Readings {
		if rd.Available() {
			out[name] = rd.Value
		}
	}
	return out
}

// Failed returns the names of unavailable readings in catalog order.
func (r PollResult) Failed() []string {
	var out []string
	for _, name := range r.Order {
		if !r.Readings[name].Available() {
			out = append(out, name)
		}
	}
	return out
}

// Cycle is what Run emits per tick: either a result or a whole-cycle error.
type Cycle struct {
	Result PollResult
	Err    error
}
