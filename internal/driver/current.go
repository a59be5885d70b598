package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fnm-sh/fnm/internal/version"
)

func Current(cOpts *CommonOpts) *cobra.Command {
	opts := &currentOptions{
		CommonOpts: cOpts,
	}

	return &cobra.Command{
		Use:   "current",
		Short: "Print the Node.js version active in the current shell.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return opts.current()
		},
	}
}

type currentOptions struct {
	*CommonOpts
}

func (o *currentOptions) current() error {
	v, ok, err := o.activeVersion()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("none")
		return nil
	}
	fmt.Println(v)
	return nil
}

// activeVersion reads the version behind the shell's multishell link, or
// behind the default alias when no shell integration is active.
func (o *currentOptions) activeVersion() (version.Version, bool, error) {
	link := o.Config.MultishellPath()
	if link == "" {
		aliases, err := o.Config.AliasesDir()
		if err != nil {
			return version.Version{}, false, err
		}
		link = filepath.Join(aliases, "default")
	}

	target, err := os.Readlink(link)
	if err != nil {
		return version.Version{}, false, nil
	}
	v, err := version.Parse(filepath.Base(filepath.Dir(target)))
	if err != nil {
		return version.Version{}, false, err
	}
	return v, true, nil
}
