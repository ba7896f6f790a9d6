//go:build unit

package controllers_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/infrastructure/controllers"
	"github.com/rios0rios0/upstreamwatch/test/domain/entitybuilders"
)

func sampleReports() []entities.CheckReport {
	return []entities.CheckReport{
		{
			Entity: entitybuilders.NewTrackedEntityBuilder().
				WithName("widget").WithRepo("acme/widget").WithVersion("v1.0.0").
				WithLatestVersion("v2.0.0").WithLatestURL("https://github.com/acme/widget/releases/tag/v2.0.0").
				BuildTrackedEntity(),
			PreviousVersion: "v1.0.0",
			Changed:         true,
		},
		{
			Entity: entitybuilders.NewTrackedEntityBuilder().
				WithName("gadget").WithRepo("acme/gadget").WithLatestVersion("v3.1.0").
				WithLastError("provider API rate limited for acme/gadget").
				BuildTrackedEntity(),
			PreviousVersion: "v3.1.0",
			ErrorKind:       entities.ErrorKindRateLimit,
		},
	}
}

func TestPrintReports(t *testing.T) {
	t.Parallel()

	t.Run("should print a table with a summary line", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer

		// when
		err := controllers.PrintReports(&out, "table", sampleReports())

		// then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "widget")
		assert.Contains(t, out.String(), "🔔 Changed")
		assert.Contains(t, out.String(), "❌ RateLimited")
		assert.Contains(t, out.String(), "Total: 2 checked, 1 changed, 1 failed")
	})

	t.Run("should say so when nothing is tracked", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer

		// when
		err := controllers.PrintReports(&out, "table", nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "No entities with upstream tracking configured.\n", out.String())
	})

	t.Run("should link the latest version in markdown", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer

		// when
		err := controllers.PrintReports(&out, "markdown", sampleReports())

		// then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "[v2.0.0](https://github.com/acme/widget/releases/tag/v2.0.0)")
	})

	t.Run("should encode one JSON object per report", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer

		// when
		err := controllers.PrintReports(&out, "json", sampleReports())

		// then
		require.NoError(t, err)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "widget", rows[0]["entity"])
		assert.Equal(t, true, rows[0]["updateAvailable"])
		assert.Equal(t, "RateLimited", rows[1]["errorKind"])
	})

	t.Run("should show the kind carried by the report", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		reports := []entities.CheckReport{{
			Entity: entitybuilders.NewTrackedEntityBuilder().
				WithName("gadget").WithRepo("acme/gadget").
				WithLastError("provider API rate limited, then no releases or tags found").
				BuildTrackedEntity(),
			ErrorKind: entities.ErrorKindNotFound,
		}}

		// when
		err := controllers.PrintReports(&out, "table", reports)

		// then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "❌ NotFound")
		assert.NotContains(t, out.String(), "❌ RateLimited")
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	t.Run("should cut on rune boundaries", func(t *testing.T) {
		t.Parallel()

		// given
		value := "dépôt-café-über"

		// when
		result := controllers.Truncate(value, 8)

		// then
		assert.True(t, utf8.ValidString(result))
		assert.Equal(t, "dépôt...", result)
	})

	t.Run("should keep short values untouched", func(t *testing.T) {
		t.Parallel()

		// given
		value := "café"

		// when
		result := controllers.Truncate(value, 4)

		// then
		assert.Equal(t, "café", result)
	})
}
