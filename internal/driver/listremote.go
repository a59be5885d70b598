package driver

import (
	"fmt"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

func ListRemote(cOpts *CommonOpts) *cobra.Command {
	opts := &listRemoteOptions{
		CommonOpts: cOpts,
	}

	return &cobra.Command{
		Use:     "ls-remote",
		Aliases: []string{"list-remote"},
		Short:   "Print all Node.js versions available for download from the configured mirror.",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return opts.listRemote()
		},
	}
}

type listRemoteOptions struct {
	*CommonOpts
}

func (o *listRemoteOptions) listRemote() error {
	idx, err := o.newIndex()
	if err != nil {
		return err
	}
	releases, err := idx.Releases()
	if err != nil {
		return err
	}

	// The index lists the newest release first, print oldest first instead.
	rows := []string{"Version | Date | LTS"}
	for i := len(releases) - 1; i >= 0; i-- {
		r := releases[i]
		rows = append(rows, fmt.Sprintf("%s | %s | %s", r.Version, r.Date, r.LTS))
	}
	fmt.Println(columnize.SimpleFormat(rows))
	return nil
}
