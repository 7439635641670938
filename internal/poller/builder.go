// internal/poller/builder.go
package poller

import (
	"github.com/sirupsen/logrus"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/catalog"
	cfg "github.com/MTTPoll/Lambda-Heatpump-Test/internal/config"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/decode"
	pmodbus "github.com/MTTPoll/Lambda-Heatpump-Test/internal/poller/modbus"
)

// Build constructs a Poller for one normalized device and wires the
// Modbus client lifecycle.
// The connection is reused while healthy.
// On transport death, Poller discards the client and uses factory again.
// No session is opened here: an unreachable device must not stop startup.
func Build(d cfg.DeviceConfig, base *catalog.Catalog, log logrus.FieldLogger) (*Poller, error) {
	order, err := decode.ParseWordOrder(d.WordOrder)
	if err != nil {
		return nil, err
	}

	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		return pmodbus.New(pmodbus.Config{
			Endpoint: d.Endpoint(),
			UnitID:   d.Unit(),
			Timeout:  d.Timeout(),
		})
	}

	return New(
		Config{
			Device:    d.ID,
			WordOrder: order,
			Catalog:   CatalogFor(d, base),
			Interval:  d.Interval(),
		},
		nil,
		factory,
		log,
	)
}

// CatalogFor drops the heating circuits the device does not have.
func CatalogFor(d cfg.DeviceConfig, base *catalog.Catalog) *catalog.Catalog {
	var absent []catalog.Group
	if !d.Circuit2() {
		absent = append(absent, catalog.GroupHeatingCircuit2)
	}
	if !d.Circuit3() {
		absent = append(absent, catalog.GroupHeatingCircuit3)
	}
	return base.Without(absent...)
}
