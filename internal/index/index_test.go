package index

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnm-sh/fnm/internal/logger"
	"github.com/fnm-sh/fnm/internal/version"
)

const stdTestIndex = `[
	{"version": "v20.11.1", "date": "2024-02-13", "lts": "Iron", "files": ["linux-x64", "osx-arm64-tar"]},
	{"version": "v20.11.0", "date": "2024-01-09", "lts": "Iron", "files": ["linux-x64"]},
	{"version": "v19.9.0", "date": "2023-04-10", "lts": false, "files": ["linux-x64"]},
	{"version": "v18.16.0", "date": "2023-04-12", "lts": "Hydrogen", "files": ["linux-x64"]}
]`

func newTestClient(t *testing.T, refresh time.Duration) (*Client, *atomic.Int64) {
	t.Helper()

	hits := &atomic.Int64{}
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dist/index.json", r.URL.Path)
		hits.Add(1)
		_, _ = w.Write([]byte(stdTestIndex))
	}))
	t.Cleanup(testServer.Close)

	mirror, err := url.Parse(testServer.URL + "/dist/")
	require.NoError(t, err)

	return New(logger.NewTestBuilder(), mirror, t.TempDir(), refresh), hits
}

func TestLTSNameUnmarshal(t *testing.T) {
	t.Parallel()

	var releases []Release
	require.NoError(t, json.Unmarshal([]byte(stdTestIndex), &releases))
	require.Len(t, releases, 4)
	assert.Equal(t, LTSName("Iron"), releases[0].LTS)
	assert.Equal(t, LTSName(""), releases[2].LTS)
}

func TestReleases(t *testing.T) {
	t.Parallel()

	c, hits := newTestClient(t, 15*time.Minute)

	releases, err := c.Releases()
	require.NoError(t, err)
	require.Len(t, releases, 4)
	assert.Equal(t, "v20.11.1", releases[0].Version)
	assert.EqualValues(t, 1, hits.Load())

	// A second lookup within the refresh interval is served from the cache.
	releases, err = c.Releases()
	require.NoError(t, err)
	assert.Len(t, releases, 4)
	assert.EqualValues(t, 1, hits.Load())
}

func TestReleasesWithoutCache(t *testing.T) {
	t.Parallel()

	c, hits := newTestClient(t, 0)

	_, err := c.Releases()
	require.NoError(t, err)
	_, err = c.Releases()
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestResolve(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, 15*time.Minute)

	// Prime the on-disk cache so the parallel sub-tests below all read it.
	_, err := c.Releases()
	require.NoError(t, err)

	resolveTestCases := map[string]struct {
		token       string
		expected    string
		expectedErr bool
	}{
		"Concrete":          {token: "v19.9.0", expected: "v19.9.0"},
		"Latest":            {token: "latest", expected: "v20.11.1"},
		"LTS":               {token: "lts", expected: "v20.11.1"},
		"LTSWildcard":       {token: "lts/*", expected: "v20.11.1"},
		"LTSCodename":       {token: "lts/hydrogen", expected: "v18.16.0"},
		"LTSCodenameCased":  {token: "lts/Hydrogen", expected: "v18.16.0"},
		"UnknownCodename":   {token: "lts/carbon", expectedErr: true},
		"UnresolvableAlias": {token: "my-alias", expectedErr: true},
	}

	for name := range resolveTestCases {
		tc := resolveTestCases[name]
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v, err := version.Parse(tc.token)
			require.NoError(t, err)

			resolved, err := c.Resolve(v)
			if tc.expectedErr {
				require.ErrorIs(t, err, ErrNoSuchRelease)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, resolved.String())
			assert.False(t, resolved.IsNamed())
		})
	}
}

func TestResolveOffMirrorIndex(t *testing.T) {
	t.Parallel()

	mirror, err := url.Parse("file:///srv/node-dist")
	require.NoError(t, err)

	c := New(logger.NewTestBuilder(), mirror, "", 0)
	_, err = c.Resolve(version.Named("latest"))
	assert.ErrorIs(t, err, ErrNoIndex)
}
