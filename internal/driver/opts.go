package driver

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fnm-sh/fnm/internal/config"
	"github.com/fnm-sh/fnm/internal/index"
	"github.com/fnm-sh/fnm/internal/logger"
	"github.com/fnm-sh/fnm/internal/platform"
	"github.com/fnm-sh/fnm/internal/version"
)

var (
	ErrNoVersionGiven      = errors.New("no version given and no version file found")
	ErrVersionNotInstalled = errors.New("version is not installed")
	ErrUnknownAlias        = errors.New("unknown alias")
)

const indexRefreshInterval = 15 * time.Minute

type CommonOpts struct {
	LogBuilder *logger.Builder
	Log        *zap.Logger
	Config     *config.Config

	Verbose        []string
	NodeDistMirror string
	FnmDir         string
	MultishellPath string
	LogLevel       string
	Arch           string
	LibC           string
}

func NewCommonOpts() *CommonOpts {
	return &CommonOpts{
		LogBuilder: logger.NewBuilder(zapcore.Lock(os.Stderr)),
	}
}

// Parse assembles the effective configuration from the flags that were
// explicitly set, the environment and computed defaults. It runs once,
// before any command logic.
func (c *CommonOpts) Parse(cmd *cobra.Command) error {
	host := platform.CurrentHost()

	flagIfChanged := func(name, value string) string {
		if cmd.Flags().Changed(name) {
			return value
		}
		return ""
	}

	conf, err := config.Load(c.LogBuilder.Domain(logger.InitDomain), host, config.Overrides{
		NodeDistMirror: flagIfChanged("node-dist-mirror", c.NodeDistMirror),
		BaseDir:        flagIfChanged("fnm-dir", c.FnmDir),
		MultishellPath: flagIfChanged("multishell-path", c.MultishellPath),
		LogLevel:       flagIfChanged("log-level", c.LogLevel),
		Arch:           flagIfChanged("arch", c.Arch),
		LibC:           flagIfChanged("libc", c.LibC),
	})
	if err != nil {
		return err
	}
	c.Config = conf

	c.LogBuilder.SetDefaultLevel(conf.LogLevel)
	for _, domain := range c.Verbose {
		c.LogBuilder.SetDomainLevel(domain, zapcore.DebugLevel)
	}
	c.Log = c.LogBuilder.Domain(logger.CLIDomain)
	return nil
}

// requestedVersion picks the version to operate on: the explicit argument
// when one was given, otherwise the nearest version file.
func (c *CommonOpts) requestedVersion(arg string) (version.Version, error) {
	if arg != "" {
		return version.Parse(arg)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return version.Version{}, err
	}
	v, p, ok, err := version.FromDotfile(cwd)
	if err != nil {
		return version.Version{}, err
	}
	if !ok {
		return version.Version{}, ErrNoVersionGiven
	}
	c.Log.Sugar().Debugf("Using Node %s from %q.", v, p)
	return v, nil
}

// resolveVersion reduces a named reference to a concrete version: local
// aliases first, then the channels the release index knows about.
func (c *CommonOpts) resolveVersion(v version.Version) (version.Version, error) {
	if !v.IsNamed() {
		return v, nil
	}

	if resolved, ok, err := c.aliasTarget(v.String()); err != nil {
		return version.Version{}, err
	} else if ok {
		return resolved, nil
	}

	idx, err := c.newIndex()
	if err != nil {
		return version.Version{}, err
	}
	return idx.Resolve(v)
}

func (c *CommonOpts) newIndex() (*index.Client, error) {
	base, err := c.Config.BaseDir()
	if err != nil {
		return nil, err
	}
	return index.New(c.LogBuilder, c.Config.NodeDistMirror, base, indexRefreshInterval), nil
}

// installationDir is where the extracted tree of a version lives. The
// version token in the path must stay byte-stable for existing installs to
// remain addressable.
func (c *CommonOpts) installationDir(v version.Version) (string, error) {
	installations, err := c.Config.InstallationsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(installations, v.String(), "installation"), nil
}

// aliasTarget follows an alias link to the version it points at.
func (c *CommonOpts) aliasTarget(name string) (version.Version, bool, error) {
	aliases, err := c.Config.AliasesDir()
	if err != nil {
		return version.Version{}, false, err
	}

	target, err := os.Readlink(filepath.Join(aliases, name))
	if err != nil {
		return version.Version{}, false, nil
	}

	// Alias links point at <installations>/<version>/installation.
	v, err := version.Parse(filepath.Base(filepath.Dir(target)))
	if err != nil {
		return version.Version{}, false, err
	}
	return v, true, nil
}

// writeSymlink atomically repoints path at target, replacing whatever was
// there before.
func writeSymlink(path string, target string) error {
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Symlink(target, path)
}

// binDir is where the node executables live inside an installation. The
// windows archives have them at the top level.
func binDir(installDir string, hostOS string) string {
	if hostOS == "windows" {
		return installDir
	}
	return filepath.Join(installDir, "bin")
}
