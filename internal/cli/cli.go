package cli

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/clapgo/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// NewRootCommand returns the clapgo command. Flag parsing is disabled:
// every argument goes to the engine verbatim. Host settings come from the
// environment through lookupEnv (see app.ConfigFromEnv).
func NewRootCommand(outW, errW io.Writer, lookupEnv func(string) (string, bool)) *cobra.Command {
	return &cobra.Command{
		Use:   "clapgo <component>.<verb> [--param value ...]",
		Short: "clapgo - dispatches one verb of a registered component",
		Long: `clapgo routes its arguments to a verb of one of the compiled-in
components, binds the verb's parameters and runs it.

Host settings are read from the environment:
  CLAPGO_CONFIG          HCL file with log_level, log_format, defaults, ...
  CLAPGO_LOG_LEVEL       debug, info, warn or error
  CLAPGO_LOG_FORMAT      text or json
  CLAPGO_DEFAULTS        defaults file or directory (.hcl, .toml, .yaml)
  CLAPGO_BACKGROUND      run synchronous verbs on their own goroutine
  CLAPGO_IGNORE_UNKNOWN  drop unrecognized arguments

Pass -help for the list of components and verbs.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ConfigFromEnv(lookupEnv)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			slog.Debug("Host configuration resolved.", "config", cfg)

			a, err := app.NewApp(outW, errW, cfg)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			code, err := a.Run(cmd.Context(), args)
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
}
