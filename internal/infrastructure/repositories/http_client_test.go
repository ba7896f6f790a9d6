//go:build unit

package repositories_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	newSettings := func(retries int) *entities.Settings {
		settings := entities.NewDefaultSettings()
		settings.Upstream.Retries = retries
		settings.Upstream.Timeout = 2 * time.Second
		return settings
	}

	t.Run("should retry server errors up to the configured count", func(t *testing.T) {
		t.Parallel()

		// given
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		client := infraRepos.NewHTTPClient(newSettings(1))

		// when
		resp, err := client.Get(server.URL)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("should never retry a quota rejection", func(t *testing.T) {
		t.Parallel()

		// given
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()
		client := infraRepos.NewHTTPClient(newSettings(3))

		// when
		resp, err := client.Get(server.URL)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("should make a single attempt when retries are disabled", func(t *testing.T) {
		t.Parallel()

		// given
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()
		client := infraRepos.NewHTTPClient(newSettings(0))

		// when
		resp, err := client.Get(server.URL)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, int32(1), hits.Load())
	})
}
