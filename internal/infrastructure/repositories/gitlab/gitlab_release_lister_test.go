//go:build unit

package gitlab_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	glRepo "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/gitlab"
)

var widget = entities.RepoRef{Owner: "acme", Repo: "widget"} //nolint:gochecknoglobals // shared fixture

// newLister serves releases and tags from the given handlers. Any other
// request (the client queries the API root for its rate limiter) gets an
// empty 200.
func newLister(t *testing.T, releases, tags http.HandlerFunc) (*glRepo.GitLabReleaseLister, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/releases") && releases != nil:
			assert.Contains(t, r.URL.EscapedPath(), "/api/v4/projects/acme%2Fwidget/")
			releases(w, r)
		case strings.HasSuffix(r.URL.Path, "/repository/tags") && tags != nil:
			tags(w, r)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(server.Close)

	lister, err := glRepo.NewGitLabReleaseLister(server.Client(), "", server.URL)
	require.NoError(t, err)
	return lister, server.URL
}

func TestGitLabReleaseLister(t *testing.T) {
	t.Parallel()

	t.Run("should skip upcoming releases and prereleases", func(t *testing.T) {
		t.Parallel()

		// given
		lister, baseURL := newLister(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[
				{"tag_name":"v3.0.0","upcoming_release":true},
				{"tag_name":"v2.1.0-beta.1"},
				{"tag_name":"v2.0.0"}
			]`)
		}, nil)

		// when
		result, err := lister.LatestRelease(context.Background(), widget)

		// then
		require.NoError(t, err)
		assert.Equal(t, "v2.0.0", result.Tag)
		assert.Equal(t, baseURL+"/acme/widget/-/releases/v2.0.0", result.URL)
	})

	t.Run("should report no releases for an empty list", func(t *testing.T) {
		t.Parallel()

		// given
		lister, _ := newLister(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[]`)
		}, nil)

		// when
		_, err := lister.LatestRelease(context.Background(), widget)

		// then
		require.ErrorIs(t, err, entities.ErrNoReleases)
	})

	t.Run("should include prereleases in recent releases", func(t *testing.T) {
		t.Parallel()

		// given
		lister, _ := newLister(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "5", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, `[{"tag_name":"v2.1.0-beta.1"},{"tag_name":"v2.0.0"}]`)
		}, nil)

		// when
		releases, err := lister.RecentReleases(context.Background(), widget, 5)

		// then
		require.NoError(t, err)
		require.Len(t, releases, 2)
		assert.Equal(t, "v2.1.0-beta.1", releases[0].Tag)
	})

	t.Run("should classify 429 as rate limited", func(t *testing.T) {
		t.Parallel()

		// given
		lister, _ := newLister(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"message":"429 Too Many Requests"}`)
		}, nil)

		// when
		_, err := lister.LatestRelease(context.Background(), widget)

		// then
		require.ErrorIs(t, err, entities.ErrRateLimited)
		assert.Contains(t, err.Error(), "upstream.gitlab.token")
	})

	t.Run("should return the latest tag with a web link", func(t *testing.T) {
		t.Parallel()

		// given
		lister, baseURL := newLister(t, nil, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[{"name":"v0.9.1"}]`)
		})

		// when
		result, err := lister.LatestTag(context.Background(), widget)

		// then
		require.NoError(t, err)
		assert.Equal(t, "v0.9.1", result.Tag)
		assert.Equal(t, baseURL+"/acme/widget/-/tags/v0.9.1", result.URL)
	})

	t.Run("should report not found when the project does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		lister, _ := newLister(t, nil, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"404 Project Not Found"}`)
		})

		// when
		_, err := lister.LatestTag(context.Background(), widget)

		// then
		require.ErrorIs(t, err, entities.ErrVersionNotFound)
	})
}
