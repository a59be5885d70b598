package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fnm-sh/fnm/internal/config"
	"github.com/fnm-sh/fnm/internal/driver"
)

func main() {
	opts := driver.NewCommonOpts()

	rootCmd := &cobra.Command{
		Use: config.DriverName,
		Long: `Fast and simple Node.js version management.

Install any number of Node.js versions side by side and switch between them
per shell, per project or globally. Versions can be pinned through
.node-version and .nvmrc files for reproducible project environments.
`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.Parse(cmd)
		},
	}

	registerRootFlags(rootCmd, opts)

	rootCmd.AddCommand(
		driver.Alias(opts),
		driver.Current(opts),
		driver.Default(opts),
		driver.Env(opts),
		driver.Exec(opts),
		driver.Install(opts),
		driver.List(opts),
		driver.ListRemote(opts),
		driver.Unalias(opts),
		driver.Uninstall(opts),
		driver.Use(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

func registerRootFlags(cmd *cobra.Command, opts *driver.CommonOpts) {
	cmd.PersistentFlags().StringSliceVarP(
		&opts.Verbose,
		"verbose",
		"v",
		nil,
		"Verbose output. See 'fnm --help' for more information.",
	)
	cmd.Flag("verbose").NoOptDefVal = "all"

	cmd.PersistentFlags().StringVar(
		&opts.NodeDistMirror,
		"node-dist-mirror",
		"",
		fmt.Sprintf("The mirror to download Node.js artifacts from. Overrides %s.", config.EnvNodeDistMirror),
	)
	cmd.PersistentFlags().StringVar(
		&opts.FnmDir,
		"fnm-dir",
		"",
		fmt.Sprintf("The root directory under which versions and aliases are kept. Overrides %s.", config.EnvDir),
	)
	cmd.PersistentFlags().StringVar(
		&opts.MultishellPath,
		"multishell-path",
		"",
		"The current-version link of the invoking shell.",
	)
	cmd.PersistentFlags().StringVar(
		&opts.LogLevel,
		"log-level",
		"",
		fmt.Sprintf("The minimum level of log messages to print. Overrides %s.", config.EnvLogLevel),
	)
	cmd.PersistentFlags().StringVar(
		&opts.Arch,
		"arch",
		"",
		fmt.Sprintf("The processor architecture to download artifacts for. Overrides %s.", config.EnvArch),
	)
	cmd.PersistentFlags().StringVar(
		&opts.LibC,
		"libc",
		"",
		fmt.Sprintf("The libc flavour to download artifacts for on Linux. Overrides %s.", config.EnvLibC),
	)

	// The multishell link is managed by the 'env' integration, not by users.
	_ = cmd.PersistentFlags().MarkHidden("multishell-path")
}
