package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/upstreamwatch/internal/domain/commands"
	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories"
)

// CheckController handles the "check" subcommand (one cycle, right now).
type CheckController struct {
	command commands.Check
	sources *infraRepos.VersionSourceRegistry
}

// NewCheckController creates a new CheckController.
func NewCheckController(
	command commands.Check,
	sources *infraRepos.VersionSourceRegistry,
) *CheckController {
	return &CheckController{command: command, sources: sources}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check",
		Short: "Check every tracked upstream once",
		Long: `Run a single upstream check cycle over every configured entity
and print the result.

Entities are checked one after the other with a pause in between
(upstream.delay) to stay within the provider's rate limit.`,
	}
}

// Execute runs one check cycle and prints the reports.
func (it *CheckController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()
	output, _ := cmd.Flags().GetString("output")

	reports, err := it.command.RunCycle(ctx)
	logRateLimits(it.sources)
	if err != nil {
		logger.Errorf("Upstream check failed: %v", err)
		if len(reports) == 0 {
			return
		}
	}

	if printErr := printReports(cmd.OutOrStdout(), output, reports); printErr != nil {
		logger.Errorf("Failed to print reports: %v", printErr)
	}
}

// AddFlags adds the check-specific flags to the given Cobra command.
func (it *CheckController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "table", "Output format (table, markdown, json)")
}
