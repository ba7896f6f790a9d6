package controllers

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/upstreamwatch/internal/domain/commands"
	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories"
	"github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/events"
)

// ServeController handles the "serve" subcommand (long-running scheduler).
type ServeController struct {
	schedule commands.Schedule
	bus      *events.Bus
	sources  *infraRepos.VersionSourceRegistry
	settings *entities.Settings
}

// NewServeController creates a new ServeController.
func NewServeController(
	schedule commands.Schedule,
	bus *events.Bus,
	sources *infraRepos.VersionSourceRegistry,
	settings *entities.Settings,
) *ServeController {
	return &ServeController{schedule: schedule, bus: bus, sources: sources, settings: settings}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Watch upstream repositories on a schedule",
		Long: `Start the upstream checker and keep it running until interrupted.

Checks run on the upstream.cron cadence (every 12 hours by default),
plus once shortly after startup (upstream.startup_delay).`,
	}
}

// Execute starts the scheduler and blocks until SIGINT or SIGTERM.
func (it *ServeController) Execute(_ *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if it.settings.Upstream.Token != "" {
		logger.Info("GitHub token configured (authenticated mode, 5000 req/h)")
	} else {
		logger.Info("No GitHub token configured (anonymous mode, 60 req/h). " +
			"Set upstream.token or GITHUB_TOKEN for higher limits.")
	}

	it.bus.SubscribeReport(logReport)
	it.bus.SubscribeReports(logReportBatch)
	it.bus.SubscribeReports(func([]entities.CheckReport) {
		logRateLimits(it.sources)
	})

	if err := it.schedule.Start(ctx); err != nil {
		logger.Errorf("Failed to start upstream checks: %v", err)
		return
	}

	<-ctx.Done()
	logger.Info("Stopping upstream checks...")
	it.schedule.Stop()
}

func logReport(report entities.CheckReport) {
	upstream := report.Entity.Upstream
	entry := logger.WithFields(logger.Fields{
		"entity":   report.Entity.Name,
		"upstream": upstream.Repo,
	})
	switch {
	case report.Failed():
		entry.Debugf("Upstream report: failed (%s)", upstream.LastError)
	case report.Changed:
		entry.Infof("Upstream report: %s (was %s) %s",
			upstream.LatestVersion, report.PreviousVersion, upstream.LatestURL)
	default:
		entry.Debugf("Upstream report: %s", upstream.LatestVersion)
	}
}

func logReportBatch(reports []entities.CheckReport) {
	failed := 0
	for _, report := range reports {
		if report.Failed() {
			failed++
		}
	}
	logger.Infof("Upstream cycle finished: %d checked, %d changed, %d failed",
		len(reports), entities.CountChanged(reports), failed)
}
