// internal/writer/payload.go
package writer

import (
	"encoding/json"
	"fmt"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/decode"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/poller"
)

// SensorState is one entry of the published state object.
// Value is null when the reading was unavailable this cycle.
type SensorState struct {
	Value       decode.Value `json:"value"`
	Unit        string       `json:"unit,omitempty"`
	DeviceClass string       `json:"device_class,omitempty"`
	StateClass  string       `json:"state_class,omitempty"`
	UniqueID    string       `json:"unique_id"`
}

// EncodeState renders a poll result as a JSON object keyed by sensor name.
// Every catalog descriptor is present, available or not.
func EncodeState(plan Plan, res poller.PollResult) ([]byte, error) {
	if plan.Catalog == nil {
		return nil, fmt.Errorf("writer: device %s: plan has no catalog", plan.Device)
	}

	out := make(map[string]SensorState, len(res.Order))
	for _, name := range res.Order {
		d, ok := plan.Catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("writer: device %s: reading %q not in catalog", plan.Device, name)
		}

		st := SensorState{
			Unit:        d.Unit,
			DeviceClass: d.DeviceClass,
			StateClass:  d.StateClass,
			UniqueID:    d.UniqueID(),
		}
		if rd := res.Readings[name]; rd.Available() {
			st.Value = rd.Value
		}
		out[name] = st
	}

	return json.Marshal(out)
}
