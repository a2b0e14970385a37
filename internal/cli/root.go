package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel  string
	logFormat string
}

// NewRootCmd creates the root cobra command for the choregrapher CLI. Output
// and logs are written to outW.
func NewRootCmd(outW io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "choregrapher",
		Short: "Choregrapher - a declarative process scheduler for step-based simulation models",
		Long: `Choregrapher runs simulation models whose processes are tagged with
categories. Each step, processes run in waves ordered by a priority table
over those categories, restricted to the elements selected by a focus filter.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err.Error())
	})

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "json", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(opts),
		newScheduleCmd(opts),
		newCategoriesCmd(),
	)
	return root
}

func (o *rootOptions) validate() error {
	o.logFormat = strings.ToLower(o.logFormat)
	if o.logFormat != "text" && o.logFormat != "json" {
		return usageError("invalid log-format: must be 'text' or 'json'")
	}

	o.logLevel = strings.ToLower(o.logLevel)
	switch o.logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")
	return nil
}
