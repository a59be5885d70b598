package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func Uninstall(cOpts *CommonOpts) *cobra.Command {
	opts := &uninstallOptions{
		CommonOpts: cOpts,
	}

	cmd := &cobra.Command{
		Use:   "uninstall <version>",
		Short: "Remove an installed Node.js version.",
		Long: `Remove an installed Node.js version together with any aliases that point at it. The version may
also be given as an alias name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.version = args[0]
			return opts.uninstall()
		},
	}

	return cmd
}

type uninstallOptions struct {
	*CommonOpts

	version string
}

func (o *uninstallOptions) uninstall() error {
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
	versionDir := filepath.Dir(installDir)
	if _, err = os.Stat(versionDir); err != nil {
		return fmt.Errorf("%w: %s", ErrVersionNotInstalled, v)
	}

	if err = o.removeAliasesTo(versionDir); err != nil {
		return err
	}
	if err = os.RemoveAll(versionDir); err != nil {
		return err
	}
	o.Log.Sugar().Infof("Uninstalled Node %s.", v)
	return nil
}

func (o *uninstallOptions) removeAliasesTo(versionDir string) error {
	aliases, err := o.Config.AliasesDir()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(aliases)
	if err != nil {
		return err
	}
	for _, e := range entries {
		p := filepath.Join(aliases, e.Name())
		target, err := os.Readlink(p)
		if err != nil {
			continue
		}
		if strings.HasPrefix(target, versionDir+string(os.PathSeparator)) || target == versionDir {
			if err = os.Remove(p); err != nil {
				return err
			}
			o.Log.Sugar().Infof("Removed the %q alias.", e.Name())
		}
	}
	return nil
}
