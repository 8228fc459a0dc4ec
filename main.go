// Package main is the entry point for the bibigrid command.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/bibiserv/bibigrid/pkg/cli/cmd"
	"github.com/bibiserv/bibigrid/pkg/cli/ui/errorhandler"
	"github.com/bibiserv/bibigrid/pkg/di"
	"github.com/bibiserv/bibigrid/pkg/utils/notify"
)

func main() {
	exitCode := runSafely(os.Args[1:], runWithArgs, os.Stderr)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			panicMessage := fmt.Sprintf("panic recovered: %v\n%s", r, debug.Stack())
			notify.WriteMessage(notify.Message{
				Type:    notify.ErrorType,
				Content: panicMessage,
				Writer:  errWriter,
			})

			exitCode = 1
		}
	}()

	exitCode = runner(args)

	return exitCode
}

func runWithArgs(args []string) int {
	rootCmd := cmd.NewRootCmd(di.NewRuntime(), os.Stderr)
	rootCmd.SetArgs(args)

	return report(cmd.Execute(rootCmd), rootCmd.ErrOrStderr())
}

// report prints usage errors and returns the exit code for err. Errors that
// carry an exit code were already logged by the command.
func report(err error, errWriter io.Writer) int {
	code := cmd.ExitCode(err)
	if code != cmd.ExitUsage {
		return code
	}

	message := err.Error()

	var cmdErr *errorhandler.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Message() != "" {
		message = cmdErr.Message()
	}

	notify.Errorf(errWriter, "%s", message)
	notify.Hintf(errWriter, "Run 'bibigrid --help' for usage.")

	return code
}
