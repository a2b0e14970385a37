package cli

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/choregrapher/internal/app"
	"github.com/spf13/cobra"
)

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule CONFIG",
		Short: "Print the waves of every configured model instance",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.NewConfig(app.Config{
				ConfigPath: args[0],
				LogLevel:   opts.logLevel,
				LogFormat:  opts.logFormat,
			})
			if err != nil {
				return usageError(err.Error())
			}
			a, err := app.NewApp(cmd.ErrOrStderr(), cfg, loader())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ns := range a.Schedule() {
				fmt.Fprintf(out, "%s (%s)\n", ns.Namespace, ns.Model)
				for i, w := range ns.Waves {
					fmt.Fprintf(out, "  %d. %s %s\n", i+1, w.Vector, strings.Join(w.Names, ", "))
				}
			}
			return nil
		},
	}
}
