package cmd

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/treetext/marktree/pkg/document"
)

func jsonCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "json",
		Short: "Print the document tree of a Markdown file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readMarkdown(args[0])
			if err != nil {
				return err
			}

			root := document.Parse(data)
			out, err := json.MarshalIndent(root, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to marshal document tree")
			}

			cmd.Printf("%s\n", out)
			return nil
		},
	}
	return &cmd
}
