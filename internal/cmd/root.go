package cmd

import (
	"github.com/spf13/cobra"

	"github.com/treetext/marktree/internal/log"
)

var debug bool

func Root() *cobra.Command {
	cmd := cobra.Command{
		Use:           "marktree",
		Short:         "Convert Markdown to a document tree and back, losslessly",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.Set(true)
			}
		},
	}

	pflags := cmd.PersistentFlags()

	pflags.BoolVar(&debug, "debug", false, "Print debug logs to stderr.")

	cmd.AddCommand(fmtCmd())
	cmd.AddCommand(jsonCmd())
	cmd.AddCommand(cellsCmd())
	cmd.AddCommand(treeCmd())

	return &cmd
}
