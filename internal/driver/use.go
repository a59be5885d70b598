package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fnm-sh/fnm/internal/config"
)

func Use(cOpts *CommonOpts) *cobra.Command {
	opts := &useOptions{
		CommonOpts: cOpts,
	}

	cmd := &cobra.Command{
		Use:   "use [<version>]",
		Short: "Switch the current shell to a Node.js version.",
		Long: `Point the current shell at an installed Node.js version. Without an argument the nearest
.node-version or .nvmrc file decides. Outside of a shell set up with 'fnm env' this changes the
default version instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.version = args[0]
			}
			return opts.use()
		},
	}

	return cmd
}

type useOptions struct {
	*CommonOpts

	version string
}

func (o *useOptions) use() error {
	v, err := o.requestedVersion(o.version)
	if err != nil {
		return err
	}
	if v, err = o.resolveVersion(v); err != nil {
		return err
	}

	installDir, err := o.installationDir(v)
	if err != nil {
		return err
	}
	if _, err = os.Stat(installDir); err != nil {
		return fmt.Errorf("%w: %s, run '%s install %s' first", ErrVersionNotInstalled, v, config.DriverName, v)
	}

	link := o.Config.MultishellPath()
	if link == "" {
		aliases, err := o.Config.AliasesDir()
		if err != nil {
			return err
		}
		link = filepath.Join(aliases, "default")
		o.Log.Warn("No shell integration active; changing the default version instead.")
	}

	if err = writeSymlink(link, installDir); err != nil {
		return err
	}
	o.Log.Sugar().Infof("Now using Node %s.", v)
	return nil
}
