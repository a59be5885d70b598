package mirror

import (
	"net/url"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnm-sh/fnm/internal/dist"
	"github.com/fnm-sh/fnm/internal/logger"
	"github.com/fnm-sh/fnm/internal/platform"
	"github.com/fnm-sh/fnm/internal/version"
)

var (
	stdTestArtifact = dist.Artifact{
		Version: version.FromSemver(semver.MustParse("18.2.0")),
		OS:      "linux",
		Arch:    platform.ArchX64,
		LibC:    platform.LibCGlibc,
	}
	stdTestContent = []byte("node-archive-content")
)

func TestNew(t *testing.T) {
	t.Parallel()

	newTestCases := map[string]struct {
		mirror   string
		expected Storage
	}{
		"Official": {mirror: "https://nodejs.org/dist/", expected: &HTTPS{}},
		"PlainTLS": {mirror: "http://mirror.internal/node/", expected: &HTTPS{}},
		"Local":    {mirror: "file:///srv/node-dist", expected: &FileSystem{}},
		"FTP":      {mirror: "ftp://mirror.internal/node/"},
	}

	for name := range newTestCases {
		tc := newTestCases[name]
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			u, err := url.Parse(tc.mirror)
			require.NoError(t, err)

			s, err := New(logger.NewTestBuilder(), u)
			if tc.expected == nil {
				require.ErrorIs(t, err, ErrUnsupportedMirror)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.expected, s)
		})
	}
}
