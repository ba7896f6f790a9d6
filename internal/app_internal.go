package internal

import (
	"strings"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

// AppInternal is the root of the dependency graph handed to the CLI.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates the AppInternal from the aggregated controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns every registered controller.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}

// GetController returns the controller bound to the given subcommand name.
func (it *AppInternal) GetController(name string) entities.Controller {
	for _, controller := range it.controllers {
		if CommandName(controller.GetBind()) == name {
			return controller
		}
	}
	return nil
}

// CommandName returns the first word of a controller's usage line.
func CommandName(bind entities.ControllerBind) string {
	if fields := strings.Fields(bind.Use); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
