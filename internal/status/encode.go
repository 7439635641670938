// internal/status/encode.go
package status

import (
	"encoding/json"
	"time"
)

type wireSnapshot struct {
	Device         string  `json:"device"`
	Health         string  `json:"health"`
	HealthCode     uint16  `json:"health_code"`
	LastErrorCode  uint16  `json:"last_error_code"`
	SecondsInError uint16  `json:"seconds_in_error"`
	LastError      string  `json:"last_error,omitempty"`
	LastSuccess    *string `json:"last_success"`
}

// Encode converts a Snapshot into its published JSON form.
// Layout is fixed. No IO. No side effects.
func Encode(s Snapshot) ([]byte, error) {
	w := wireSnapshot{
		Device:         s.Device,
		Health:         HealthName(s.Health),
		HealthCode:     s.Health,
		LastErrorCode:  s.LastErrorCode,
		SecondsInError: s.SecondsInError,
		LastError:      s.LastError,
	}
	if !s.LastSuccess.IsZero() {
		ts := s.LastSuccess.UTC().Format(time.RFC3339)
		w.LastSuccess = &ts
	}
	return json.Marshal(w)
}
