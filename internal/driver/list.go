package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/fnm-sh/fnm/internal/version"
)

func List(cOpts *CommonOpts) *cobra.Command {
	opts := &listOptions{
		CommonOpts: cOpts,
	}

	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print all installed Node.js versions together with their aliases.",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return opts.list()
		},
	}
}

type listOptions struct {
	*CommonOpts
}

func (o *listOptions) list() error {
	versions, err := o.installedVersions()
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Println("No Node.js versions are installed.")
		return nil
	}

	aliases, err := o.aliasesByVersion()
	if err != nil {
		return err
	}

	rows := []string{"Version | Aliases"}
	for _, v := range versions {
		rows = append(rows, fmt.Sprintf("%s | %s", v, strings.Join(aliases[v.String()], ", ")))
	}
	fmt.Println(columnize.SimpleFormat(rows))
	return nil
}

// installedVersions enumerates the installation directories, oldest version
// first. Entries that do not look like a version are skipped.
func (o *listOptions) installedVersions() ([]version.Version, error) {
	installations, err := o.Config.InstallationsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(installations)
	if err != nil {
		return nil, err
	}

	var versions []version.Version
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := version.Parse(entry.Name())
		if err != nil || v.IsNamed() {
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i int, j int) bool {
		vi, _ := versions[i].Semver()
		vj, _ := versions[j].Semver()
		return vi.LessThan(vj)
	})
	return versions, nil
}

// aliasesByVersion inverts the alias links into a version-to-names map.
func (o *listOptions) aliasesByVersion() (map[string][]string, error) {
	aliases, err := o.Config.AliasesDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(aliases)
	if err != nil {
		return nil, err
	}

	byVersion := map[string][]string{}
	for _, entry := range entries {
		target, err := os.Readlink(filepath.Join(aliases, entry.Name()))
		if err != nil {
			continue
		}
		v := filepath.Base(filepath.Dir(target))
		byVersion[v] = append(byVersion[v], entry.Name())
	}
	for _, names := range byVersion {
		sort.Strings(names)
	}
	return byVersion, nil
}
