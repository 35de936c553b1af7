// Package cli wires the loom command surface.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "loom",
		Short: "loom - declarative file-transformation job runner",
		Long: `Loom executes an ordered list of file transformations from a job
definition: each entry names a parser variant, a source artifact and a
destination. Variants resolve remotely from the script store first, then
from the builtin registry.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "loom.yml", "engine config file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}
