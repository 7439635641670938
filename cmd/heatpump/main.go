// cmd/heatpump/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/catalog"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/config"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/logging"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/monitor"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/poller"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/status"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/writer"
)

var Version = "dev"

func main() {
	cfgPath := flag.String("config", "heatpump.yaml", "path to the YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("heatpump %s\n", Version)
		return
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	hp := cfg.Heatpump
	log := logging.New(hp.Log)
	log.Infof("heatpump %s starting (config=%s, devices=%d)", Version, *cfgPath, len(hp.Devices))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// fail fast on a broken built-in catalog
	base := catalog.MustLambda()

	// --------------------
	// Shared sinks + metrics
	// --------------------

	clients, closeWriters, err := writer.BuildEndpointClients(ctx, hp)
	if err != nil {
		log.Fatalf("writer clients failed: %v", err)
	}
	defer func() {
		if err := closeWriters(); err != nil {
			log.Warnf("writer close: %v", err)
		}
	}()

	var metrics *monitor.Monitor
	reg := prometheus.NewRegistry()
	if hp.Metrics.Enabled {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err = monitor.New(reg, log)
		if err != nil {
			log.Fatalf("metrics setup failed: %v", err)
		}
	}

	// --------------------
	// Build per-device pipelines
	// --------------------

	var (
		wg       sync.WaitGroup
		trackers []*status.Tracker
	)

	for _, dev := range hp.Devices {
		dlog := log.WithField("device", dev.ID)

		// ---- poller ----
		p, err := poller.Build(dev, base, dlog)
		if err != nil {
			log.Fatalf("poller build failed (device=%s): %v", dev.ID, err)
		}

		// ---- writer plan ----
		plan, err := writer.BuildPlan(dev, poller.CatalogFor(dev, base))
		if err != nil {
			log.Fatalf("writer plan failed (device=%s): %v", dev.ID, err)
		}

		pl := &pipeline{
			device:  dev.ID,
			tracker: status.NewTracker(dev.ID),
			data:    writer.New(plan, clients),
			metrics: metrics,
			log:     dlog,
		}
		// Status writer (enabled when any sink is)
		if sw, ok := writer.NewDeviceStatusWriter(plan, clients); ok {
			pl.status = sw
		}
		trackers = append(trackers, pl.tracker)

		// An unreachable device is not fatal: Run keeps retrying per tick.
		if err := p.Connect(); err != nil {
			dlog.WithError(err).Warn("initial connect failed")
		}

		dlog.WithFields(logrus.Fields{
			"endpoint":   dev.Endpoint(),
			"word_order": dev.WordOrder,
			"interval":   dev.Interval(),
			"sensors":    plan.Catalog.Len(),
		}).Info("device configured")

		// ---- channel between poller and pipeline ----
		out := make(chan poller.Cycle)

		wg.Add(2)
		go func() {
			defer wg.Done()
			pl.run(ctx, out)
		}()
		// poller producer
		go func() {
			defer wg.Done()
			p.Run(ctx, out)
		}()
	}

	if metrics != nil {
		metrics.StartServer(ctx, hp.Metrics.Listen, metrics.Handler(reg, func() bool {
			for _, t := range trackers {
				if t.Snapshot().Online() {
					return true
				}
			}
			return false
		}))
	}

	// --------------------
	// Block until signalled
	// --------------------
	<-ctx.Done()
	log.Info("shutting down")
	wg.Wait()
}
