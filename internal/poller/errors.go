// internal/poller/errors.go
package poller

import (
	"errors"
	"fmt"
)

// ErrPollInFlight is returned when Refresh is called while another
// Refresh on the same poller has not finished.
var ErrPollInFlight = errors.New("poller: poll already in flight")

// TransportError fails a whole cycle: the device could not be reached
// or the session died before anything was read.
type TransportError struct {
	Device string
	Op     string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("poller: device %s: %s: %v", e.Device, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RegisterReadError marks one descriptor unavailable for one cycle.
type RegisterReadError struct {
	Name     string
	Address  uint16
	Quantity uint16
	Err      error
}

func (e *RegisterReadError) Error() string {
	return fmt.Sprintf("poller: read %q at %d (qty %d): %v", e.Name, e.Address, e.Quantity, e.Err)
}

func (e *RegisterReadError) Unwrap() error { return e.Err }

// errSkipped fills descriptors that were never attempted because the
// session could not be restored mid-cycle.
var errSkipped = errors.New("connection lost earlier in cycle")

// connectionFault is implemented by transport errors that leave the
// session unusable.
type connectionFault interface{ ConnectionLost() bool }

func isConnectionLost(err error) bool {
	var cf connectionFault
	return errors.As(err, &cf) && cf.ConnectionLost()
}
