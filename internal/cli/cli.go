// Package cli parses the demo driver's command-line arguments: a
// flag.FlagSet with a custom usage string and an ExitError carrying the
// process exit code.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/flowgrid/internal/app"
)

// ExitError carries the process exit code a CLI failure should produce.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string { return e.Message }

// Parse processes args into an app.Config. shouldExit is true when Parse
// already printed everything the user needs (help text, missing grid path)
// and the caller should exit cleanly with no further action.
func Parse(args []string, output io.Writer) (cfg *app.Config, shouldExit bool, err error) {
	flagSet := flag.NewFlagSet("flowgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowgrid - a dependency-aware task scheduler demo driver.

Usage:
  flowgrid [options] GRID_PATH

Arguments:
  GRID_PATH
    Path to an .hcl file declaring the tasks to run.

Options:
`)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	gridPath := flagSet.Arg(0)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &app.Config{
		GridPath:  gridPath,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	}, false, nil
}
