//go:build unit

package github_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories"
	ghRepo "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/github"
)

var widget = entities.RepoRef{Owner: "acme", Repo: "widget"} //nolint:gochecknoglobals // shared fixture

func newLister(t *testing.T, token string, handler http.HandlerFunc) *ghRepo.GitHubReleaseLister {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	lister, err := ghRepo.NewGitHubReleaseLister(server.Client(), token, server.URL, "https://github.com/")
	require.NoError(t, err)
	return lister
}

func TestGitHubReleaseLister(t *testing.T) {
	t.Parallel()

	t.Run("should return the latest release", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/acme/widget/releases/latest", r.URL.Path)
			w.Header().Set("X-RateLimit-Remaining", "42")
			fmt.Fprint(w, `{"tag_name":"v1.4.0","html_url":"https://github.com/acme/widget/releases/tag/v1.4.0"}`)
		})

		// when
		result, err := lister.LatestRelease(context.Background(), widget)

		// then
		require.NoError(t, err)
		assert.Equal(t, "v1.4.0", result.Tag)
		assert.Equal(t, "https://github.com/acme/widget/releases/tag/v1.4.0", result.URL)
		remaining, known := lister.RateLimitRemaining()
		assert.True(t, known)
		assert.Equal(t, 42, remaining)
	})

	t.Run("should report no releases on 404", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		})

		// when
		_, err := lister.LatestRelease(context.Background(), widget)

		// then
		require.ErrorIs(t, err, entities.ErrNoReleases)
	})

	t.Run("should classify 403 as rate limited", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"Forbidden"}`)
		})

		// when
		_, err := lister.LatestRelease(context.Background(), widget)

		// then
		require.ErrorIs(t, err, entities.ErrRateLimited)
		assert.Contains(t, err.Error(), "upstream.token")
	})

	t.Run("should keep querying other repositories after an exhausted quota", func(t *testing.T) {
		t.Parallel()

		// given
		var hits atomic.Int32
		reset := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
		lister := newLister(t, "", func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", reset)
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
		})
		gadget := entities.RepoRef{Owner: "acme", Repo: "gadget"}

		// when
		_, firstErr := lister.LatestRelease(context.Background(), widget)
		_, secondErr := lister.LatestRelease(context.Background(), gadget)

		// then
		require.ErrorIs(t, firstErr, entities.ErrRateLimited)
		require.ErrorIs(t, secondErr, entities.ErrRateLimited)
		assert.Equal(t, int32(2), hits.Load())
		remaining, known := lister.RateLimitRemaining()
		assert.True(t, known)
		assert.Zero(t, remaining)
	})

	t.Run("should classify 429 as rate limited", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"message":"slow down"}`)
		})

		// when
		_, err := lister.LatestTag(context.Background(), widget)

		// then
		require.ErrorIs(t, err, entities.ErrRateLimited)
	})

	t.Run("should classify a server error as transient", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		// when
		_, err := lister.LatestRelease(context.Background(), widget)

		// then
		require.Error(t, err)
		assert.Equal(t, entities.ErrorKindTransient, entities.ClassifyError(err))
	})

	t.Run("should list recent releases with the requested page size", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/acme/widget/releases", r.URL.Path)
			assert.Equal(t, "5", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, `[{"tag_name":"v2.0.0-rc.1","prerelease":true},{"tag_name":"v1.9.0"}]`)
		})

		// when
		releases, err := lister.RecentReleases(context.Background(), widget, 5)

		// then
		require.NoError(t, err)
		require.Len(t, releases, 2)
		assert.Equal(t, "v2.0.0-rc.1", releases[0].Tag)
	})

	t.Run("should build a web link for the latest tag", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/acme/widget/tags", r.URL.Path)
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, `[{"name":"v1"}]`)
		})

		// when
		result, err := lister.LatestTag(context.Background(), widget)

		// then
		require.NoError(t, err)
		assert.Equal(t, "v1", result.Tag)
		assert.Equal(t, "https://github.com/acme/widget/releases/tag/v1", result.URL)
	})

	t.Run("should report not found when there are no tags", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[]`)
		})

		// when
		_, err := lister.LatestTag(context.Background(), widget)

		// then
		require.ErrorIs(t, err, entities.ErrVersionNotFound)
	})

	t.Run("should report not found when the repository does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		lister := newLister(t, "", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		})

		// when
		_, err := lister.LatestTag(context.Background(), widget)

		// then
		require.ErrorIs(t, err, entities.ErrVersionNotFound)
		assert.Contains(t, err.Error(), "repository acme/widget not found")
	})

	t.Run("should only authenticate when a token is configured", func(t *testing.T) {
		t.Parallel()

		// given
		var anonymous, authenticated string
		anonymousLister := newLister(t, "", func(w http.ResponseWriter, r *http.Request) {
			anonymous = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"tag_name":"v1.0.0"}`)
		})
		tokenLister := newLister(t, "s3cret", func(w http.ResponseWriter, r *http.Request) {
			authenticated = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"tag_name":"v1.0.0"}`)
		})

		// when
		_, anonymousErr := anonymousLister.LatestRelease(context.Background(), widget)
		_, tokenErr := tokenLister.LatestRelease(context.Background(), widget)

		// then
		require.NoError(t, anonymousErr)
		require.NoError(t, tokenErr)
		assert.Empty(t, anonymous)
		assert.Equal(t, "Bearer s3cret", authenticated)
	})
}

func TestGitHubFallback(t *testing.T) {
	t.Parallel()

	t.Run("should resolve from tags when the repository has no releases", func(t *testing.T) {
		t.Parallel()

		// given
		var paths []string
		lister := newLister(t, "", func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			switch r.URL.Path {
			case "/repos/acme/widget/releases/latest":
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
			case "/repos/acme/widget/tags":
				fmt.Fprint(w, `[{"name":"v1"}]`)
			default:
				w.WriteHeader(http.StatusTeapot)
			}
		})
		source := infraRepos.NewFallbackVersionSource(lister)

		// when
		result, err := source.ResolveLatestVersion(context.Background(), widget, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.VersionResult{
			Tag: "v1",
			URL: "https://github.com/acme/widget/releases/tag/v1",
		}, result)
		assert.Equal(t, []string{"/repos/acme/widget/releases/latest", "/repos/acme/widget/tags"}, paths)
	})

	t.Run("should not query tags when a release exists", func(t *testing.T) {
		t.Parallel()

		// given
		tagQueries := 0
		lister := newLister(t, "", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/acme/widget/tags" {
				tagQueries++
			}
			fmt.Fprint(w, `{"tag_name":"v1.4.0"}`)
		})
		source := infraRepos.NewFallbackVersionSource(lister)

		// when
		result, err := source.ResolveLatestVersion(context.Background(), widget, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, "v1.4.0", result.Tag)
		assert.Zero(t, tagQueries)
	})
}
