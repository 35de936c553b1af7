package cli

import (
	"github.com/spf13/cobra"

	"loom/internal/engine"
)

func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <job-definition>",
		Short: "Execute all transformations in a job definition",
		Long: `Execute every transformation in the given job definition, strictly in
list order. A failing transformation is logged and counted; it never stops
the run. Only a missing or malformed definition ends the run early.

Example:
  loom run job.yml
  loom run --config loom.yml jobs/nightly.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.Bootstrap(cmd.Context(), engine.Config{
				JobPath:    args[0],
				ConfigPath: rootOpts.ConfigPath,
			})
			if err != nil {
				return err
			}
			_, err = e.Run(cmd.Context())
			return err
		},
	}
}
