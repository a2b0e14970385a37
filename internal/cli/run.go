package cli

import (
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/app"
	"github.com/specialistvlad/choregrapher/internal/config"
	"github.com/specialistvlad/choregrapher/internal/hcl_adapter"
	"github.com/specialistvlad/choregrapher/internal/yaml_adapter"
	"github.com/spf13/cobra"
)

// loader reads every supported configuration format.
func loader() config.Loader {
	return config.Chain{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		steps      int
		healthPort int
		models     []string
	)

	cmd := &cobra.Command{
		Use:   "run CONFIG",
		Short: "Run a simulation",
		Long: `Run loads every .hcl, .yaml and .yml file under CONFIG (a file or a
directory), wires the configured model instances over one shared data store
and runs the configured number of steps.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.NewConfig(app.Config{
				ConfigPath:      args[0],
				LogLevel:        opts.logLevel,
				LogFormat:       opts.logFormat,
				HealthcheckPort: healthPort,
				Steps:           steps,
				Models:          models,
			})
			if err != nil {
				return usageError(err.Error())
			}

			a, err := app.NewApp(cmd.OutOrStdout(), cfg, loader())
			if err != nil {
				return err
			}
			if err := a.Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Simulated %d step(s) of %d instance(s); %d element(s) alive.\n",
				a.Steps(), len(a.Schedule()), len(a.Store().IDs()))
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 0, "Number of steps, overriding the configuration when positive")
	cmd.Flags().IntVar(&healthPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	cmd.Flags().StringSliceVar(&models, "model", nil, "Run only the named model instance (repeatable)")
	return cmd
}
