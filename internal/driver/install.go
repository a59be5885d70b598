package driver

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fnm-sh/fnm/internal/dist"
	"github.com/fnm-sh/fnm/internal/logger"
	"github.com/fnm-sh/fnm/internal/mirror"
	"github.com/fnm-sh/fnm/internal/platform"
)

func Install(cOpts *CommonOpts) *cobra.Command {
	opts := &installOptions{
		CommonOpts: cOpts,
	}

	cmd := &cobra.Command{
		Use:   "install [<version>]",
		Short: "Install a Node.js version.",
		Long: `Download and install a Node.js version. The version may be a concrete release such as 'v18.2.0', a
channel such as 'latest' or 'lts/hydrogen', or omitted entirely in which case the nearest
.node-version or .nvmrc file decides.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.version = args[0]
			}
			return opts.install()
		},
	}

	return cmd
}

type installOptions struct {
	*CommonOpts

	version string
}

func (o *installOptions) install() error {
	v, err := o.requestedVersion(o.version)
	if err != nil {
		return err
	}
	if v, err = o.resolveVersion(v); err != nil {
		return err
	}

	log := o.LogBuilder.Domain(logger.InstallDomain)

	arch := platform.SafeArch(o.Config.Arch, v, o.Config.Host)
	if arch != o.Config.Arch {
		log.Sugar().Infof("Using the %s build instead of %s: Node.js below 16 was never published for Apple Silicon.", arch, o.Config.Arch)
	}

	installDir, err := o.installationDir(v)
	if err != nil {
		return err
	}
	if _, err = os.Stat(installDir); err == nil {
		log.Sugar().Infof("Node %s is already installed.", v)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	store, err := mirror.New(o.LogBuilder, o.Config.NodeDistMirror)
	if err != nil {
		return err
	}

	artifact := dist.Artifact{
		Version: v,
		OS:      o.Config.Host.OS,
		Arch:    arch,
		LibC:    o.Config.LibC,
	}
	log.Sugar().Infof("Installing Node %s (%s) from %s.", v, artifact, store)

	raw, err := store.Fetch(artifact)
	if err != nil {
		return err
	}

	versionDir := filepath.Dir(installDir)
	if err = os.MkdirAll(versionDir, 0o755); err != nil {
		return err
	}
	tmpDir, err := os.MkdirTemp(versionDir, ".download-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	if err = mirror.Extract(log, raw, artifact.FileName(), tmpDir); err != nil {
		return err
	}
	if err = os.Rename(archiveRoot(tmpDir), installDir); err != nil {
		return err
	}

	log.Sugar().Infof("Installed Node %s into %s.", v, installDir)
	return nil
}

// archiveRoot unwraps the single top-level directory the published archives
// all carry (e.g. node-v18.2.0-linux-x64/).
func archiveRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name())
	}
	return dir
}
