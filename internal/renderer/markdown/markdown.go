// Package markdown renders a document tree back to markdown text. The
// renderer is a single bottom-up pass: children are serialized before the
// parent's formatting rule applies. All state is local to one Render call,
// so concurrent renders are safe.
package markdown

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/treetext/marktree/pkg/ast"
)

// Options controls document-level rendering details that are not part of the
// tree itself.
type Options struct {
	// LineBreak is the line break sequence to emit. Defaults to "\n".
	LineBreak []byte
	// FinalLineBreaks is the number of line breaks at the very end of the
	// output. Defaults to 0.
	FinalLineBreaks int
}

// Render serializes the tree rooted at doc to markdown.
func Render(doc *ast.Node, opts Options) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("render: nil document")
	}
	lineBreak := opts.LineBreak
	if len(lineBreak) == 0 {
		lineBreak = []byte{'\n'}
	}

	r := &renderer{
		lineBreak:       lineBreak,
		finalLineBreaks: opts.FinalLineBreaks,
	}
	if err := r.renderNode(doc, nil, nil, nil); err != nil {
		return nil, errors.WithStack(err)
	}

	// Blank-line bookkeeping can leave line breaks before the first block.
	return bytes.TrimLeft(r.buf.Bytes(), "\r\n"), nil
}

type renderer struct {
	lineBreak       []byte
	finalLineBreaks int

	buf         bytes.Buffer
	beginLine   bool
	needCR      int
	prefix      []byte
	tableAligns []ast.CellAlign
}

func (r *renderer) blankline() {
	if r.needCR < 2 {
		r.needCR = 2
	}
}

func (r *renderer) cr() {
	if r.needCR < 1 {
		r.needCR = 1
	}
}

// write flushes pending line breaks, then writes data prefixing every new
// line. Line breaks inside data are written verbatim; pending ones collapse
// against line breaks already in the buffer.
func (r *renderer) write(data []byte) {
	k := len(r.buf.Bytes()) - 1

	for r.needCR > 0 {
		if k < 0 || r.buf.Bytes()[k] == '\n' {
			k--
		} else {
			_, _ = r.buf.Write(r.lineBreak)
			if r.needCR > 1 {
				_, _ = r.buf.Write(bytes.TrimFunc(r.prefix, unicode.IsSpace))
			}
		}
		r.beginLine = true
		r.needCR--
	}

	for _, c := range data {
		if r.beginLine {
			if c == '\n' {
				// Do not leave trailing whitespace on blank lines.
				_, _ = r.buf.Write(bytes.TrimFunc(r.prefix, unicode.IsSpace))
			} else {
				_, _ = r.buf.Write(r.prefix)
			}
		}
		if c == '\n' {
			_, _ = r.buf.Write(r.lineBreak)
			r.beginLine = true
		} else {
			_ = r.buf.WriteByte(c)
			r.beginLine = false
		}
	}
}

func (r *renderer) writeString(s string) {
	r.write([]byte(s))
}

func (r *renderer) pushPrefix(p string) {
	r.prefix = append(r.prefix, p...)
}

func (r *renderer) popPrefix(p string) {
	r.prefix = r.prefix[:len(r.prefix)-len(p)]
}

func (r *renderer) renderChildren(n *ast.Node, ancestors []*ast.Node) error {
	ancestors = append(ancestors, n)
	for i, c := range n.Children {
		var prev, next *ast.Node
		if i > 0 {
			prev = n.Children[i-1]
		}
		if i+1 < len(n.Children) {
			next = n.Children[i+1]
		}
		if err := r.renderNode(c, ancestors, prev, next); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderNode(n *ast.Node, ancestors []*ast.Node, prev, next *ast.Node) error {
	switch n.Kind {
	case ast.KindDocument:
		if err := r.renderChildren(n, ancestors); err != nil {
			return err
		}
		r.needCR = r.finalLineBreaks
		r.write(nil)

	case ast.KindParagraph:
		if len(n.Children) == 0 {
			// An empty paragraph stands for a preserved blank line. It must
			// bypass the needCR collapsing, otherwise adjacent blanks would
			// merge.
			r.write(nil)
			_, _ = r.buf.Write(r.lineBreak)
			r.beginLine = true
			r.needCR = 0
			return nil
		}
		if err := r.renderChildren(n, ancestors); err != nil {
			return err
		}
		r.blankline()

	case ast.KindHeading:
		level := n.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		if len(n.Children) == 0 {
			// No trailing space on an empty heading line.
			r.writeString(strings.Repeat("#", level))
			r.blankline()
			return nil
		}
		r.writeString(strings.Repeat("#", level) + " ")
		if err := r.renderChildren(n, ancestors); err != nil {
			return err
		}
		r.blankline()

	case ast.KindBlockquote:
		r.writeString("> ")
		r.pushPrefix("> ")
		if err := r.renderChildren(n, ancestors); err != nil {
			return err
		}
		r.popPrefix("> ")
		r.blankline()

	case ast.KindCodeBlock:
		r.renderCodeBlock(n)

	case ast.KindThematicBreak:
		marker := n.Marker
		if marker == "" {
			marker = "---"
		}
		r.blankline()
		r.writeString(marker)
		r.blankline()

	case ast.KindOrderedList, ast.KindBulletedList, ast.KindTodoList:
		nested := len(ancestors) > 0 && ancestors[len(ancestors)-1].Kind == ast.KindListItem
		if nested {
			// A nested list starts on its own line and is indented one
			// level; trailing blank lines are trimmed by not emitting the
			// root-level block separator.
			r.cr()
			r.pushPrefix(listIndent)
		}
		if err := r.renderChildren(n, ancestors); err != nil {
			return err
		}
		if nested {
			r.popPrefix(listIndent)
		} else {
			r.blankline()
		}

	case ast.KindListItem:
		r.writeString(listItemMarker(ancestors, n))
		if err := r.renderChildren(n, ancestors); err != nil {
			return err
		}
		r.cr()

	case ast.KindTable:
		return r.renderTable(n, ancestors)

	case ast.KindTableRow, ast.KindTableCell:
		// Rows and cells are driven by renderTable; a stray one outside a
		// table renders as its children.
		return r.renderChildren(n, ancestors)

	case ast.KindImage:
		var b strings.Builder
		_, _ = b.WriteString("![")
		_, _ = b.WriteString(n.Alt)
		_, _ = b.WriteString("](")
		_, _ = b.WriteString(n.Destination)
		if n.Title != "" {
			_, _ = b.WriteString(` "`)
			_, _ = b.WriteString(n.Title)
			_, _ = b.WriteString(`"`)
		}
		_, _ = b.WriteString(")")
		r.writeString(b.String())

	case ast.KindLink:
		if n.Destination == "" {
			// Degenerate link: the wrapper is dropped, the text survives.
			return r.renderChildren(n, ancestors)
		}
		r.writeString("[")
		if err := r.renderChildren(n, ancestors); err != nil {
			return err
		}
		r.writeString("](" + n.Destination + ")")

	case ast.KindHashtag:
		r.writeString("#")
		return r.renderChildren(n, ancestors)

	case ast.KindCodeLine:
		// Reachable only for hand-built trees; code lines inside a code
		// block are serialized by renderCodeBlock.
		r.write(append(codeLineText(n), '\n'))

	case ast.KindText:
		r.renderText(n, prev, next)
	}

	return nil
}

const listIndent = "  "

func listItemMarker(ancestors []*ast.Node, item *ast.Node) string {
	if len(ancestors) == 0 {
		return "* "
	}
	switch ancestors[len(ancestors)-1].Kind {
	case ast.KindOrderedList:
		// Always "1."; markdown renderers number consecutive 1. items
		// automatically.
		return "1. "
	case ast.KindTodoList:
		if item.Checked {
			return "[x] "
		}
		return "[ ] "
	default:
		return "* "
	}
}

func codeLineText(line *ast.Node) []byte {
	var b bytes.Buffer
	for _, leaf := range line.Children {
		_, _ = b.WriteString(leaf.Text)
	}
	return b.Bytes()
}

// renderCodeBlock writes code content verbatim: no inline marks, no
// escaping. Line breaks are written as data so empty code lines survive the
// blank-line collapsing.
func (r *renderer) renderCodeBlock(n *ast.Node) {
	var content bytes.Buffer
	for _, line := range n.Children {
		_, _ = content.Write(codeLineText(line))
		_ = content.WriteByte('\n')
	}

	r.blankline()

	if !n.Fenced {
		r.pushPrefix("    ")
		r.write(content.Bytes())
		r.popPrefix("    ")
		r.blankline()
		return
	}

	// The fence must be longer than any backtick run in the content.
	ticksCount := longestBacktickSeq(content.Bytes()) + 1
	if ticksCount < 3 {
		ticksCount = 3
	}
	fence := strings.Repeat("`", ticksCount)

	r.writeString(fence + n.Language + "\n")
	r.write(content.Bytes())
	r.writeString(fence)
	r.blankline()
}

func longestBacktickSeq(data []byte) int {
	longest, current := 0, 0
	for _, b := range data {
		if b == '`' {
			current++
		} else {
			if current > longest {
				longest = current
			}
			current = 0
		}
	}
	if current > longest {
		longest = current
	}
	return longest
}

// renderTable drives rows and cells itself so the header alignment row can
// be accumulated as a side channel and emitted right after the header row.
// The accumulator is reset per table; a previous table must not leak its
// header into the next one.
func (r *renderer) renderTable(table *ast.Node, ancestors []*ast.Node) error {
	r.blankline()
	r.tableAligns = r.tableAligns[:0]

	ancestors = append(ancestors, table)
	for i, row := range table.Children {
		if err := r.renderTableRow(row, ancestors, i == 0); err != nil {
			return err
		}
		if i == 0 {
			r.writeAlignRow()
		}
	}

	r.blankline()
	return nil
}

func (r *renderer) renderTableRow(row *ast.Node, ancestors []*ast.Node, header bool) error {
	ancestors = append(ancestors, row)
	for _, cell := range row.Children {
		if header {
			r.tableAligns = append(r.tableAligns, cell.Align)
		}
		r.writeString("| ")
		if err := r.renderChildren(cell, ancestors); err != nil {
			return err
		}
		r.writeString(" ")
	}
	r.writeString("|")
	r.cr()
	return nil
}

func (r *renderer) writeAlignRow() {
	for _, align := range r.tableAligns {
		var sep string
		switch align {
		case ast.AlignLeft:
			sep = ":--"
		case ast.AlignCenter:
			sep = ":-:"
		case ast.AlignRight:
			sep = "--:"
		default:
			sep = "---"
		}
		r.writeString("| " + sep + " ")
	}
	r.writeString("|")
	r.cr()
}

// renderText serializes one text leaf of a sibling run. A mark's opening
// delimiter is emitted only if the previous sibling did not already carry
// the mark, the closing one only if the next sibling does not carry it, so
// a run of leaves sharing a mark gets one delimiter pair around the whole
// run. Marks continuing from the previous leaf must sit outermost, which is
// why the leaf's marks are reordered before delimiters are written.
func (r *renderer) renderText(n *ast.Node, prev, next *ast.Node) {
	marks := orderMarks(n, prev)

	for _, m := range marks {
		if !prev.HasMark(m) {
			r.writeString(markDelimiter(m))
		}
	}

	text := n.Text
	if !n.HasMark(ast.MarkCode) {
		text = Escape(text)
	}
	r.writeString(text)

	for i := len(marks) - 1; i >= 0; i-- {
		if !next.HasMark(marks[i]) {
			r.writeString(markDelimiter(marks[i]))
		}
	}
}

// orderMarks returns the leaf's marks with the ones continuing from the
// previous leaf first. This is a specified sort, not an iteration accident:
// continuing marks were opened by an earlier sibling and therefore must
// close after the marks this leaf opens.
func orderMarks(n, prev *ast.Node) []ast.Mark {
	if prev == nil || prev.Kind != ast.KindText || len(n.Marks) < 2 {
		return n.Marks
	}
	continuing := make([]ast.Mark, 0, len(n.Marks))
	fresh := make([]ast.Mark, 0, len(n.Marks))
	for _, m := range n.Marks {
		if prev.HasMark(m) {
			continuing = append(continuing, m)
		} else {
			fresh = append(fresh, m)
		}
	}
	return append(continuing, fresh...)
}

func markDelimiter(m ast.Mark) string {
	switch m {
	case ast.MarkBold:
		return "**"
	case ast.MarkItalic:
		return "_"
	case ast.MarkCode:
		return "`"
	case ast.MarkInserted:
		return "++"
	case ast.MarkDeleted:
		return "~~"
	case ast.MarkUnderlined:
		return "__"
	default:
		return ""
	}
}
