package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func Alias(cOpts *CommonOpts) *cobra.Command {
	opts := &aliasOptions{
		CommonOpts: cOpts,
	}

	return &cobra.Command{
		Use:   "alias <version> <name>",
		Short: "Register a name for an installed Node.js version.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.version, opts.name = args[0], args[1]
			return opts.alias()
		},
	}
}

func Unalias(cOpts *CommonOpts) *cobra.Command {
	opts := &aliasOptions{
		CommonOpts: cOpts,
	}

	return &cobra.Command{
		Use:   "unalias <name>",
		Short: "Remove a previously registered alias.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.name = args[0]
			return opts.unalias()
		},
	}
}

func Default(cOpts *CommonOpts) *cobra.Command {
	opts := &aliasOptions{
		CommonOpts: cOpts,
		name:       "default",
	}

	return &cobra.Command{
		Use:   "default <version>",
		Short: "Set the Node.js version new shells start out with.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.version = args[0]
			return opts.alias()
		},
	}
}

type aliasOptions struct {
	*CommonOpts

	version string
	name    string
}

func (o *aliasOptions) alias() error {
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
		return fmt.Errorf("%w: %s", ErrVersionNotInstalled, v)
	}

	aliases, err := o.Config.AliasesDir()
	if err != nil {
		return err
	}
	if err = writeSymlink(filepath.Join(aliases, o.name), installDir); err != nil {
		return err
	}
	o.Log.Sugar().Infof("Aliased %q to Node %s.", o.name, v)
	return nil
}

func (o *aliasOptions) unalias() error {
	aliases, err := o.Config.AliasesDir()
	if err != nil {
		return err
	}

	link := filepath.Join(aliases, o.name)
	if _, err = os.Lstat(link); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownAlias, o.name)
	}
	if err = os.Remove(link); err != nil {
		return err
	}
	o.Log.Sugar().Infof("Removed the alias %q.", o.name)
	return nil
}
