package driver

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fnm-sh/fnm/internal/config"
)

func Exec(cOpts *CommonOpts) *cobra.Command {
	opts := &execOptions{
		CommonOpts: cOpts,
	}

	cmd := &cobra.Command{
		Use:   "exec [--using <version>] [--] <command> [<args>]",
		Short: "Run a command with a given Node.js version on the PATH.",
		Long: `Runs a command with the binaries of a Node.js version prepended to the PATH, without touching the
current shell. The version comes from the '--using' flag or, when absent, from the nearest
.node-version or .nvmrc file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.command = args[0]
			opts.args = args[1:]
			return opts.exec()
		},
	}

	cmd.Flags().StringVar(&opts.using, "using", "", "The Node.js version to run the command with.")

	return cmd
}

type execOptions struct {
	*CommonOpts

	using   string
	command string
	args    []string
}

const execExitCode = 128 // Used to differentiate from exit codes of the invoked command.

func (o *execOptions) exec() error {
	v, err := o.requestedVersion(o.using)
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

	// Ideally we would be using a syscall.Exec() here to simply replace the
	// driver process with the target one. However... this is not
	// cross-platform compatible as this pattern is not supported on Windows.
	// Hence we need a more complex jiggle to ensure that signals are
	// forwarded, etc.
	cmd := exec.Command(o.command, o.args...)
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Env = append(
		os.Environ(),
		"PATH="+binDir(installDir, o.Config.Host.OS)+string(os.PathListSeparator)+os.Getenv("PATH"),
	)

	done := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	go o.signalForwarder(cmd, sigs, done)

	signal.Notify(sigs)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			o.Log.Error(fmt.Sprintf("Failed to invoke %q.", o.command), zap.Error(err))
			os.Exit(execExitCode)
			return err
		}
	}

	close(done) // This should result in an os.Exit() call from the signal forwarder.

	time.Sleep(1 * time.Second)
	o.Log.Error(fmt.Sprintf("Unexpected failure to exit %q.", config.DriverName))
	os.Exit(execExitCode)
	return nil
}

func (o *execOptions) signalForwarder(cmd *exec.Cmd, sigs chan os.Signal, done chan struct{}) {
	for {
		select {
		case sig, ok := <-sigs:
			if !ok {
				o.Log.Error("Unexpected closure of signal forwarding.")
				os.Exit(execExitCode)
			}

			if sig == os.Interrupt {
				go o.timeBomb(cmd, done)

				if runtime.GOOS == "windows" {
					// Interrupt forwarding does not exist as a concept on
					// Windows and hence we replace it with a 'kill' for lack
					// of a better alternative.
					sig = os.Kill
				}
			}

			o.forwardSignal(cmd, sig)
		case <-done:
			signal.Stop(sigs)
			close(sigs)
			<-sigs
			if cmd.ProcessState != nil {
				os.Exit(cmd.ProcessState.ExitCode())
			} else {
				o.Log.Error(fmt.Sprintf("Unable to determine the exit status of the invocation of %v.", cmd.Args))
				os.Exit(execExitCode)
			}
		}
	}
}

func (o *execOptions) timeBomb(cmd *exec.Cmd, done chan struct{}) {
	const gracePeriod = 30 * time.Second

	select {
	case <-done:
		return
	case <-time.After(gracePeriod):
		o.Log.Warn(fmt.Sprintf("Invocation of %q failed to exit after %v. Forcefully exiting.", cmd.Args[0], gracePeriod))
		os.Exit(execExitCode)
	}
}

func (o *execOptions) forwardSignal(cmd *exec.Cmd, sig os.Signal) {
	defer func() {
		if p := recover(); p != nil {
			o.Log.Debug(fmt.Sprintf("Recovered from panic while forwarding %v to the invoked command.", sig))
		}
	}()
	if err := cmd.Process.Signal(sig); err != nil {
		o.Log.Debug(fmt.Sprintf("Could not forward %v to the invoked command.", sig), zap.Error(err))
	}
}
