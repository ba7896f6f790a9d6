package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/upstreamwatch/internal/domain/commands"
	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

// ResolveController handles the "resolve" subcommand.
type ResolveController struct {
	command commands.Resolve
}

// NewResolveController creates a new ResolveController.
func NewResolveController(command commands.Resolve) *ResolveController {
	return &ResolveController{command: command}
}

// GetBind returns the Cobra command metadata for the resolve controller.
func (it *ResolveController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "resolve owner/repo",
		Short: "Print the latest version of one repository",
		Long: `Resolve the latest version of a single repository: the latest
release, or the latest tag when the repository has no releases.`,
	}
}

// Execute resolves the repository given as the first argument.
func (it *ResolveController) Execute(cmd *cobra.Command, arguments []string) {
	if len(arguments) != 1 {
		logger.Error("resolve expects exactly one argument: owner/repo")
		return
	}

	provider, _ := cmd.Flags().GetString("provider")
	prerelease, _ := cmd.Flags().GetBool("prerelease")

	result, err := it.command.Execute(context.Background(), commands.ResolveOptions{
		Provider:           provider,
		Repo:               arguments[0],
		IncludePrereleases: prerelease,
	})
	if err != nil {
		logger.WithField("kind", entities.ClassifyError(err)).Errorf("Resolve failed: %v", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", result.Tag, result.URL)
}

// AddFlags adds the resolve-specific flags to the given Cobra command.
func (it *ResolveController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", entities.DefaultProvider, "Version source (github, gitlab, git, azuredevops)")
	cmd.Flags().Bool("prerelease", false, "Consider prereleases")
}
