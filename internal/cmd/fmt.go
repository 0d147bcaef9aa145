package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/treetext/marktree/pkg/document"
)

func fmtCmd() *cobra.Command {
	var write bool

	cmd := cobra.Command{
		Use:   "fmt",
		Short: "Format a Markdown file into canonical format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName := args[0]
			data, err := readMarkdown(fileName)
			if err != nil {
				return err
			}

			doc := document.New(data)
			result, err := doc.Render()
			if err != nil {
				return errors.Wrap(err, "failed to render document")
			}

			if write {
				if fileName == "-" {
					return errors.New("cannot write back to stdin")
				}
				return errors.Wrapf(
					os.WriteFile(fileName, result, 0o600),
					"failed to write file %q", fileName,
				)
			}

			_, err = cmd.OutOrStdout().Write(result)
			return errors.Wrap(err, "failed to write result")
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write result back to the source file instead of stdout.")

	return &cmd
}
