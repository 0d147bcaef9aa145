package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/treetext/marktree/pkg/ast"
	"github.com/treetext/marktree/pkg/document"
)

var (
	kindStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	attrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	textStyle = lipgloss.NewStyle().Faint(true)
)

func treeCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "tree",
		Short: "Print the document tree of a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readMarkdown(args[0])
			if err != nil {
				return err
			}

			root := document.Parse(data)
			return ast.Walk(root, func(n *ast.Node, ancestors []*ast.Node, entering bool) (ast.WalkStatus, error) {
				if !entering {
					return ast.WalkContinue, nil
				}
				indent := strings.Repeat("  ", len(ancestors))
				cmd.Printf("%s%s%s\n", indent, kindStyle.Render(n.Kind.String()), nodeDetails(n))
				return ast.WalkContinue, nil
			})
		},
	}
	return &cmd
}

func nodeDetails(n *ast.Node) string {
	var details []string

	switch n.Kind {
	case ast.KindHeading:
		details = append(details, attrStyle.Render(fmt.Sprintf("level=%d", n.Level)))
	case ast.KindCodeBlock:
		if n.Language != "" {
			details = append(details, attrStyle.Render("language="+n.Language))
		}
		if !n.Fenced {
			details = append(details, attrStyle.Render("indented"))
		}
	case ast.KindListItem:
		if n.Checked {
			details = append(details, attrStyle.Render("checked"))
		}
	case ast.KindLink, ast.KindImage:
		details = append(details, attrStyle.Render("destination="+n.Destination))
	case ast.KindText:
		details = append(details, textStyle.Render(fmt.Sprintf("%q", n.Text)))
		for _, m := range n.Marks {
			details = append(details, attrStyle.Render(m.String()))
		}
	}

	if len(details) == 0 {
		return ""
	}
	return " " + strings.Join(details, " ")
}
