package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bibiserv/bibigrid/pkg/cli/dispatch"
	"github.com/bibiserv/bibigrid/pkg/cli/ui/errorhandler"
	"github.com/bibiserv/bibigrid/pkg/di"
	"github.com/bibiserv/bibigrid/pkg/io/configuration"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/bibiserv/bibigrid/pkg/utils/timer"
	fcolor "github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ExitUsage is returned for invalid command lines.
const ExitUsage = 64

// ExitConfiguration is returned when the configuration cannot be read or merged.
const ExitConfiguration = 1

// ExitError carries a non-zero exit code out of cobra.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}

	return e.Err.Error()
}

// Unwrap exposes the underlying cause.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps the error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitUsage
}

// ActionCountMessage is printed when not exactly one action flag is given.
func ActionCountMessage() string {
	parts := make([]string, 0, len(dispatch.Actions()))

	for _, action := range dispatch.Actions() {
		name := string(action)
		if short := actionShorthands[action]; short != "" {
			name = "-" + short + "/--" + name
		} else {
			name = "--" + name
		}

		parts = append(parts, name)
	}

	return "One (and only one) of the arguments " + strings.Join(parts, " ") + " is required"
}

// NewRootCmd creates the bibigrid command. Log lines go to console.
func NewRootCmd(runtimeContainer *di.Runtime, console io.Writer) *cobra.Command {
	if console == nil {
		console = os.Stderr
	}

	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "bibigrid",
		Short: "Create, inspect and tear down BiBiGrid clusters",
		Long: "BiBiGrid sets up and manages compute clusters on the configured infrastructures.\n" +
			"Exactly one action flag must be given per invocation.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: di.RunEWithRuntime(runtimeContainer, di.WithTimer(
			func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
				return run(cmd, injector, tmr, opts, console)
			},
		)),
	}

	bindFlags(cmd, opts)

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor(
		errorhandler.WithRewrite(actionGroupMarker(), ActionCountMessage()),
	)

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

func run(cmd *cobra.Command, injector di.Injector, tmr timer.Timer, opts *rootOptions, console io.Writer) error {
	intent, err := dispatch.NewIntent(opts.dispatch())
	if err != nil {
		return fmt.Errorf("%s: %w", ActionCountMessage(), err)
	}

	cfg, err := di.ResolveSettings(injector)
	if err != nil {
		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	log, err := logging.New(logging.Config{
		Console:      console,
		ConsoleLevel: logging.ThresholdFor(logging.DefaultVerbosity),
		FilePath:     cfg.LogFile,
		Color:        !fcolor.NoColor,
	})
	if err != nil {
		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	defer func() {
		// stderr reports EINVAL on sync for terminals.
		_ = log.Sync()
		_ = log.Close()
	}()

	log.SetVerbosity(opts.verbosity)
	log.Debugf("Logging to %s", log.Path())

	manager := configuration.NewManager(cfg.ConfigDir, log)

	entries, err := manager.ReadConfiguration(opts.configInput)
	if err != nil {
		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	merged, err := manager.MergeConfigurations(entries, opts.defaultConfigInput, opts.enforcedConfigInput)
	if err != nil {
		log.Errorf("%v", err)

		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	configs, err := configuration.DecodeAll(merged)
	if err != nil {
		log.Errorf("%v", err)

		return &ExitError{Code: ExitConfiguration, Err: err}
	}

	registry, err := di.ResolveProviderRegistry(injector)
	if err != nil {
		return &ExitError{Code: dispatch.ExitFailure, Err: err}
	}

	store, err := di.ResolveMemoryStore(injector)
	if err != nil {
		return &ExitError{Code: dispatch.ExitFailure, Err: err}
	}

	engine := &dispatch.Engine{
		Acquirer: registry,
		Actions:  dispatch.DefaultActions(store),
		Memory:   store,
		Timer:    tmr,
		Log:      log,
		Out:      cmd.OutOrStdout(),
	}

	code := engine.Run(cmd.Context(), intent, configs, opts.configInput)
	if code != dispatch.ExitSuccess {
		return &ExitError{Code: code}
	}

	return nil
}
