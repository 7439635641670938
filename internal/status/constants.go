// internal/status/constants.go
package status

// Device health codes.
// These values are published and MUST NOT be configurable.

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy device.
const HealthOK uint16 = 1

// HealthError represents a device error state with nothing cached.
const HealthError uint16 = 2

// HealthStale represents a failing device whose last good readings are still held.
const HealthStale uint16 = 3

// HealthDisabled represents a device that is no longer polled.
const HealthDisabled uint16 = 4

// ---- LIMITS ----

// MaxSecondsInError is where the seconds counter saturates.
const MaxSecondsInError = 65535

// GenericErrorCode is reported for errors that carry no code of their own.
const GenericErrorCode uint16 = 1

// HealthName returns the published name of a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	case HealthDisabled:
		return "disabled"
	}
	return "unknown"
}
