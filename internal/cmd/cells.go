package cmd

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/treetext/marktree/internal/log"
	"github.com/treetext/marktree/pkg/document/editor"
)

func cellsCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "cells",
		Short: "Print a Markdown file as notebook cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readMarkdown(args[0])
			if err != nil {
				return err
			}

			notebook, err := editor.Deserialize(data, editor.Options{Logger: log.Get()})
			if err != nil {
				return errors.Wrap(err, "failed to deserialize source")
			}

			out, err := json.MarshalIndent(notebook, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to marshal notebook")
			}

			cmd.Printf("%s\n", out)
			return nil
		},
	}
	return &cmd
}
