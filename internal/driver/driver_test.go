package driver

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"go.uber.org/zap"

	"github.com/fnm-sh/fnm/internal/config"
	"github.com/fnm-sh/fnm/internal/logger"
	"github.com/fnm-sh/fnm/internal/platform"
	"github.com/fnm-sh/fnm/internal/version"
)

var testHost = platform.Host{OS: "linux", Processor: "amd64", LinuxFamily: "debian"}

// newTestOpts builds a CommonOpts rooted in throwaway directories, with a
// local file mirror serving the given artifact archives.
func newTestOpts(t *testing.T, multishellPath string, artifacts map[string][]byte) *CommonOpts {
	t.Helper()

	for _, env := range []string{
		config.EnvNodeDistMirror, config.EnvDir, config.EnvMultishellPath,
		config.EnvLogLevel, config.EnvArch, config.EnvLibC,
	} {
		t.Setenv(env, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	mirrorDir := t.TempDir()
	for remotePath, raw := range artifacts {
		p := filepath.Join(mirrorDir, filepath.FromSlash(remotePath))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, raw, 0o644))
	}

	conf, err := config.Load(zap.NewNop(), testHost, config.Overrides{
		NodeDistMirror: "file://" + mirrorDir,
		BaseDir:        filepath.Join(t.TempDir(), "state"),
		MultishellPath: multishellPath,
		Arch:           "x64",
		LibC:           "glibc",
	})
	require.NoError(t, err)

	return &CommonOpts{
		LogBuilder: logger.NewTestBuilder(),
		Log:        zap.NewNop(),
		Config:     conf,
	}
}

// nodeArchive builds a minimal xz-compressed artifact the way the mirrors
// publish them: a single wrapping directory with a bin/node inside.
func nodeArchive(t *testing.T, rootDir string) []byte {
	t.Helper()

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: rootDir + "/bin", Typeflag: tar.TypeDir, Mode: 0o755}))
	content := []byte("node-binary")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: rootDir + "/bin/node", Typeflag: tar.TypeReg, Mode: 0o755, Size: int64(len(content)),
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	require.NoError(t, err)
	_, err = xw.Write(tarBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	return xzBuf.Bytes()
}

func TestInstallLifecycle(t *testing.T) {
	multishellLink := filepath.Join(t.TempDir(), "current")
	opts := newTestOpts(t, multishellLink, map[string][]byte{
		"v18.2.0/node-v18.2.0-linux-x64.tar.xz": nodeArchive(t, "node-v18.2.0-linux-x64"),
	})

	install := &installOptions{CommonOpts: opts, version: "v18.2.0"}
	require.NoError(t, install.install())

	v, err := version.Parse("v18.2.0")
	require.NoError(t, err)
	installDir, err := opts.installationDir(v)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(installDir, "bin", "node"))

	// Installing an already present version is a no-op.
	require.NoError(t, install.install())

	use := &useOptions{CommonOpts: opts, version: "v18.2.0"}
	require.NoError(t, use.use())
	target, err := os.Readlink(multishellLink)
	require.NoError(t, err)
	assert.Equal(t, installDir, target)

	current := &currentOptions{CommonOpts: opts}
	active, ok, err := current.activeVersion()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v18.2.0", active.String())

	alias := &aliasOptions{CommonOpts: opts, version: "v18.2.0", name: "work"}
	require.NoError(t, alias.alias())
	resolved, err := opts.resolveVersion(version.Named("work"))
	require.NoError(t, err)
	assert.Equal(t, "v18.2.0", resolved.String())

	uninstall := &uninstallOptions{CommonOpts: opts, version: "v18.2.0"}
	require.NoError(t, uninstall.uninstall())
	assert.NoDirExists(t, filepath.Dir(installDir))

	aliases, err := opts.Config.AliasesDir()
	require.NoError(t, err)
	_, err = os.Lstat(filepath.Join(aliases, "work"))
	assert.Error(t, err)

	err = uninstall.uninstall()
	assert.ErrorIs(t, err, ErrVersionNotInstalled)
}

func TestUseErrors(t *testing.T) {
	opts := newTestOpts(t, filepath.Join(t.TempDir(), "current"), nil)

	use := &useOptions{CommonOpts: opts, version: "v18.2.0"}
	assert.ErrorIs(t, use.use(), ErrVersionNotInstalled)
}

func TestUnalias(t *testing.T) {
	opts := newTestOpts(t, "", nil)

	unalias := &aliasOptions{CommonOpts: opts, name: "missing"}
	assert.ErrorIs(t, unalias.unalias(), ErrUnknownAlias)
}

func TestArchiveRoot(t *testing.T) {
	t.Parallel()

	wrapped := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(wrapped, "node-v18.2.0-linux-x64"), 0o755))
	assert.Equal(t, filepath.Join(wrapped, "node-v18.2.0-linux-x64"), archiveRoot(wrapped))

	flat := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(flat, "node"), []byte("bin"), 0o755))
	assert.Equal(t, flat, archiveRoot(flat))
}

func TestBinDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/opt/install", "bin"), binDir("/opt/install", "linux"))
	assert.Equal(t, filepath.Join("/opt/install", "bin"), binDir("/opt/install", "darwin"))
	assert.Equal(t, "/opt/install", binDir("/opt/install", "windows"))
}

func TestWriteSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	link := filepath.Join(dir, "link")

	require.NoError(t, writeSymlink(link, filepath.Join(dir, "first")))
	require.NoError(t, writeSymlink(link, filepath.Join(dir, "second")))

	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "second"), target)
}
