//go:build unit

package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/rios0rios0/upstreamwatch/internal"
	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

func TestRegisterProviders(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the application with every controller", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.NewDefaultSettings()
		settings.Upstream.AzureDevOps.Organization = "acme"
		container := dig.New()
		require.NoError(t, container.Provide(func() *entities.Settings { return settings }))

		// when
		registerErr := internal.RegisterProviders(container)
		var app *internal.AppInternal
		invokeErr := container.Invoke(func(ai *internal.AppInternal) { app = ai })

		// then
		require.NoError(t, registerErr)
		require.NoError(t, invokeErr)
		require.Len(t, app.GetControllers(), 3)
		assert.NotNil(t, app.GetController("serve"))
		assert.NotNil(t, app.GetController("check"))
		assert.NotNil(t, app.GetController("resolve"))
		assert.Nil(t, app.GetController("run"))
	})
}

func TestCommandName(t *testing.T) {
	t.Parallel()

	t.Run("should take the first word of the usage line", func(t *testing.T) {
		t.Parallel()

		// given
		bind := entities.ControllerBind{Use: "resolve owner/repo"}

		// when
		name := internal.CommandName(bind)

		// then
		assert.Equal(t, "resolve", name)
	})
}
