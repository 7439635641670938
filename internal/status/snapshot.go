// internal/status/snapshot.go
package status

import "time"

// Snapshot represents exactly what the writers are allowed to deliver
// about device health. It contains no logic.
type Snapshot struct {
	Device         string
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16

	// LastError is the text of the most recent whole-cycle failure.
	LastError string

	// LastSuccess is zero until the first successful cycle.
	LastSuccess time.Time
}

// Online reports whether consumers should treat the device as available.
func (s Snapshot) Online() bool { return s.Health == HealthOK }
