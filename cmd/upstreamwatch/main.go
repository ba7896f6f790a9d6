package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/upstreamwatch/internal"
	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

type flagAdder interface {
	AddFlags(cmd *cobra.Command)
}

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "upstreamwatch",
		Short: "Upstream release watcher",
		Long: `Periodically checks whether the upstream repositories your containers
and forks are built from have published a newer release.

Releases are preferred; repositories without releases fall back to their
latest tag. Supports GitHub, GitLab, Azure DevOps and plain git remotes.

Usage modes:
  upstreamwatch serve                Run checks on a schedule (cron)
  upstreamwatch check                Check every tracked upstream once
  upstreamwatch resolve owner/repo   Print the latest version of one repository`,
		PersistentPreRun: func(command *cobra.Command, _ []string) {
			if verbose, _ := command.Flags().GetBool("verbose"); verbose {
				logger.SetLevel(logger.DebugLevel)
			}
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

// addSubcommands binds one Cobra subcommand per controller. The controllers
// of appContext only provide the metadata; the one that runs is built from
// the settings loaded once the flags are parsed.
func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		name := internal.CommandName(bind)
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Run: func(command *cobra.Command, arguments []string) {
				settings, err := loadSettings(command)
				if err != nil {
					logger.Fatalf("Failed to load config: %v", err)
				}
				runContext, err := injectAppContext(settings)
				if err != nil {
					logger.Fatalf("Failed to initialize: %v", err)
				}
				runContext.GetController(name).Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if fa, ok := controller.(flagAdder); ok {
			fa.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func loadSettings(command *cobra.Command) (*entities.Settings, error) {
	cfgPath, _ := command.Flags().GetString("config")
	if cfgPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Infof("No config file found (%v), using defaults", err)
			return entities.NewDefaultSettings(), nil
		}
		cfgPath = found
	}

	logger.Infof("Using config file: %s", cfgPath)
	return entities.NewSettings(cfgPath)
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	appContext, err := injectAppContext(entities.NewDefaultSettings())
	if err != nil {
		logger.Fatalf("Failed to initialize: %s", err)
	}

	cobraRoot := buildRootCommand()
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'upstreamwatch': %s", err)
	}
}
