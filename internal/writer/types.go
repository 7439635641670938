// internal/writer/types.go
package writer

import (
	"context"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/catalog"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/poller"
)

// Plan is the fully-built publish plan for one device.
type Plan struct {
	Device string

	// Catalog supplies unit and class metadata for each reading.
	Catalog *catalog.Catalog
}

// Writer publishes poll snapshots to every configured sink.
type Writer interface {
	Write(ctx context.Context, res poller.PollResult) error
}
