// internal/writer/writer.go
package writer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/poller"
)

// endpointClient is the exact contract the writers use.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	PublishState(ctx context.Context, device string, payload []byte) error
	PublishStatus(ctx context.Context, device string, online bool, payload []byte) error
}

type writerImpl struct {
	plan    Plan
	clients map[string]endpointClient
}

func New(plan Plan, clients map[string]endpointClient) Writer {
	return &writerImpl{
		plan:    plan,
		clients: clients,
	}
}

// Write encodes one result and delivers it to every sink.
// A failing sink does not stop the others.
func (w *writerImpl) Write(ctx context.Context, res poller.PollResult) error {
	payload, err := EncodeState(w.plan, res)
	if err != nil {
		return err
	}

	var errs []string
	for _, name := range sortedNames(w.clients) {
		if err := w.clients[name].PublishState(ctx, w.plan.Device, payload); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: sink=%s device=%s err=%v",
				name, w.plan.Device, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}

// sortedNames keeps delivery order stable across cycles.
func sortedNames(clients map[string]endpointClient) []string {
	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
