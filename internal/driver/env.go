package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fnm-sh/fnm/internal/config"
)

func Env(cOpts *CommonOpts) *cobra.Command {
	opts := &envOptions{
		CommonOpts: cOpts,
	}

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the shell commands that set up a Node.js multishell session.",
		Long: fmt.Sprintf(`Creates a fresh per-shell link through which the active Node.js version is resolved and prints
the shell commands that wire it into the environment. Meant to be evaluated by the shell's rc
file, for example:

  eval "$(%s env)"`, config.DriverName),
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return opts.env()
		},
	}

	cmd.Flags().StringVar(&opts.shell, "shell", "bash", "Shell syntax to emit, one of bash, zsh, fish or powershell.")

	return cmd
}

type envOptions struct {
	*CommonOpts

	shell string
}

func (o *envOptions) env() error {
	defaultDir, err := o.Config.DefaultVersionDir()
	if err != nil {
		return err
	}

	multishellBase, err := o.Config.MultishellBaseDir()
	if err != nil {
		return err
	}
	link := filepath.Join(multishellBase, fmt.Sprintf("%d_%d", os.Getpid(), time.Now().UnixMilli()))
	if err = os.Symlink(defaultDir, link); err != nil {
		return fmt.Errorf("failed to create the multishell link %q: %w", link, err)
	}
	o.Log.Debug(fmt.Sprintf("Created the multishell link %q.", link))

	base, err := o.Config.BaseDir()
	if err != nil {
		return err
	}

	fmt.Println(o.exportPath(binDir(link, o.Config.Host.OS)))
	for _, kv := range [][2]string{
		{config.EnvMultishellPath, link},
		{config.EnvDir, base},
		{config.EnvLogLevel, o.Config.LogLevel.String()},
		{config.EnvArch, string(o.Config.Arch)},
		{config.EnvNodeDistMirror, o.Config.NodeDistMirror.String()},
	} {
		fmt.Println(o.exportVar(kv[0], kv[1]))
	}
	return nil
}

func (o *envOptions) exportPath(dir string) string {
	switch o.shell {
	case "fish":
		return fmt.Sprintf("set -gx PATH %q $PATH;", dir)
	case "powershell":
		return fmt.Sprintf(`$env:PATH = "%s;$env:PATH"`, dir)
	default:
		return fmt.Sprintf(`export PATH=%q:"$PATH"`, dir)
	}
}

func (o *envOptions) exportVar(name string, value string) string {
	switch o.shell {
	case "fish":
		return fmt.Sprintf("set -gx %s %q;", name, value)
	case "powershell":
		return fmt.Sprintf(`$env:%s = "%s"`, name, value)
	default:
		return fmt.Sprintf("export %s=%q", name, value)
	}
}
