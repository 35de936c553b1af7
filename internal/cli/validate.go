package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/resolver"
)

func NewValidateCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <job-definition>",
		Short: "Parse a job definition and show how each entry would resolve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := config.LoadJobDefinition(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, t := range job.Transformations {
				module := resolver.ToModuleName(t.Object.Classname)
				op := t.Object.Operation
				if op == "" {
					op = "process"
				}
				_, remote := t.Kwargs[resolver.KwargScriptsBucket]
				fmt.Fprintf(out, "%3d  %-24s module=%-24s operation=%-16s remote=%v\n",
					i, t.Object.Classname, module, op, remote)
			}
			fmt.Fprintf(out, "%d transformation(s)\n", len(job.Transformations))
			return nil
		},
	}
}
