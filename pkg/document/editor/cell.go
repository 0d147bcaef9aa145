package editor

import (
	"bytes"
	"strings"

	"github.com/treetext/marktree/internal/renderer/markdown"
	"github.com/treetext/marktree/pkg/ast"
)

// InternalAttributePrefix namespaces metadata keys owned by this package.
const InternalAttributePrefix = "marktree.dev"

const (
	finalLineBreaksKey = InternalAttributePrefix + "/finalLineBreaks"
	frontmatterKey     = InternalAttributePrefix + "/frontmatter"
	fencedKey          = InternalAttributePrefix + "/fenced"
)

type CellKind int

const (
	// MarkupKind is a cell holding rendered markdown.
	MarkupKind CellKind = iota + 1
	// CodeKind is a cell holding the contents of a code block.
	CodeKind
)

// Cell resembles a cell of a notebook-style editor. A document maps to a
// flat list of cells: one per top-level block.
type Cell struct {
	Kind       CellKind          `json:"kind"`
	Value      string            `json:"value"`
	LanguageID string            `json:"languageId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Notebook is the collection of cells for one document, plus the
// document-level details needed to serialize it back byte-for-byte.
type Notebook struct {
	Cells    []*Cell           `json:"cells"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// toCells flattens the block tree into cells. Code blocks become code
// cells with their verbatim content; every other top-level block is
// rendered back to markdown on its own.
func toCells(root *ast.Node) []*Cell {
	var cells []*Cell
	for _, block := range root.Children {
		if block.Kind == ast.KindCodeBlock {
			cells = append(cells, codeCell(block))
			continue
		}
		cells = append(cells, &Cell{
			Kind:  MarkupKind,
			Value: renderBlock(block),
		})
	}
	return cells
}

func codeCell(block *ast.Node) *Cell {
	var lines []string
	for _, line := range block.Children {
		var b strings.Builder
		for _, leaf := range line.Children {
			_, _ = b.WriteString(leaf.Text)
		}
		lines = append(lines, b.String())
	}

	cell := &Cell{
		Kind:       CodeKind,
		Value:      strings.Join(lines, "\n"),
		LanguageID: block.Language,
	}
	if !block.Fenced {
		cell.Metadata = map[string]string{fencedKey: "false"}
	}
	return cell
}

func renderBlock(block *ast.Node) string {
	wrapper := ast.NewNode(ast.KindDocument)
	wrapper.AppendChild(block)

	out, err := markdown.Render(wrapper, markdown.Options{})
	if err != nil {
		// Render fails only on a nil tree, which cannot happen here.
		return ""
	}
	return string(bytes.TrimRight(out, "\n"))
}

// serializeCells joins cells back into markdown, one blank line between
// cells and a single line break after the last one. Code cells are
// re-fenced with enough backticks to contain their content, or indented
// when they came from an indented block.
func serializeCells(cells []*Cell) []byte {
	var buf bytes.Buffer

	for idx, cell := range cells {
		switch {
		case cell.Kind == CodeKind:
			writeCodeCell(&buf, cell)
		case cell.Value == "":
			// A preserved blank line. Written as data so the trailing
			// newline top-up below does not swallow it.
			_ = buf.WriteByte('\n')
		default:
			_, _ = buf.WriteString(cell.Value)
		}

		nlRequired := 2
		if idx == len(cells)-1 {
			nlRequired = 1
		}
		for i := countTrailingNewLines(buf.Bytes()); i < nlRequired; i++ {
			_ = buf.WriteByte('\n')
		}
	}

	return buf.Bytes()
}

func writeCodeCell(buf *bytes.Buffer, cell *Cell) {
	if cell.Metadata[fencedKey] == "false" {
		for _, line := range strings.Split(cell.Value, "\n") {
			_, _ = buf.WriteString("    ")
			_, _ = buf.WriteString(line)
			_ = buf.WriteByte('\n')
		}
		return
	}

	ticks := longestBacktickSeq(cell.Value) + 1
	if ticks < 3 {
		ticks = 3
	}
	fence := strings.Repeat("`", ticks)

	_, _ = buf.WriteString(fence)
	_, _ = buf.WriteString(cell.LanguageID)
	_ = buf.WriteByte('\n')
	if cell.Value != "" {
		_, _ = buf.WriteString(cell.Value)
		_ = buf.WriteByte('\n')
	}
	_, _ = buf.WriteString(fence)
	_ = buf.WriteByte('\n')
}

func longestBacktickSeq(s string) int {
	longest, current := 0, 0
	for _, c := range s {
		if c == '`' {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

func countTrailingNewLines(data []byte) int {
	count := 0
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] == '\n' {
			count++
		} else if data[i] != '\r' {
			break
		}
	}
	return count
}
