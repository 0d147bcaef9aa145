package document

import (
	"regexp"
	"strings"

	"github.com/treetext/marktree/pkg/ast"
)

// listIndentWidth is the number of spaces per list nesting level, for both
// parsing and rendering.
const listIndentWidth = 2

var (
	headingRe      = regexp.MustCompile(`^(#{1,6}) (.*)$`)
	fenceRe        = regexp.MustCompile("^(`{3,}|~{3,})\\s*(\\S*)")
	quoteRe        = regexp.MustCompile(`^\s*>(.*)$`)
	bulletRe       = regexp.MustCompile(`^( *)([-*]) (.*)$`)
	orderedRe      = regexp.MustCompile(`^( *)\d+\. (.*)$`)
	todoRe         = regexp.MustCompile(`^( *)\[( |x|X)\] (.*)$`)
	tableSepCellRe = regexp.MustCompile(`^:?-+:?$`)
)

// parseBlocks builds the block tree from content that has been normalized
// to "\n" line breaks and stripped of frontmatter and trailing line breaks.
// It is total: no input produces an error, the worst case degrades to a
// paragraph.
func parseBlocks(content string) *ast.Node {
	doc := ast.NewNode(ast.KindDocument)
	if content == "" {
		return doc
	}

	p := &blockParser{lines: strings.Split(content, "\n"), doc: doc}
	p.run()
	return doc
}

type blockParser struct {
	lines []string
	pos   int
	doc   *ast.Node
}

// run consumes lines in a fixed rule priority: thematic break, heading,
// fenced code, indented code, blockquote, list, table, paragraph. The first
// matching rule wins.
func (p *blockParser) run() {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]

		switch {
		case isBlank(line):
			p.parseBlankRun()
		case isThematicBreak(line):
			p.doc.AppendChild(&ast.Node{
				Kind:   ast.KindThematicBreak,
				Marker: strings.TrimSpace(line),
			})
			p.pos++
		case headingRe.MatchString(line):
			m := headingRe.FindStringSubmatch(line)
			h := &ast.Node{Kind: ast.KindHeading, Level: len(m[1])}
			h.Children = parseInline(m[2])
			p.doc.AppendChild(h)
			p.pos++
		case fenceRe.MatchString(line):
			p.parseFencedCode()
		case isIndentedCode(line):
			p.parseIndentedCode()
		case quoteRe.MatchString(line):
			p.parseBlockquote()
		case isListLine(line):
			p.parseList()
		case p.isTableStart():
			p.parseTable()
		default:
			p.parseParagraph()
		}
	}
}

// parseBlankRun preserves runs of blank lines: N consecutive blanks between
// two blocks become N-1 empty paragraphs. No empty paragraph is created at
// the start or end of input, or next to a list or table.
func (p *blockParser) parseBlankRun() {
	count := 0
	for p.pos < len(p.lines) && isBlank(p.lines[p.pos]) {
		count++
		p.pos++
	}

	if p.pos >= len(p.lines) || len(p.doc.Children) == 0 {
		return
	}
	empties := count - 1
	if empties <= 0 {
		return
	}
	if last := p.doc.LastChild(); last.Kind.IsList() || last.Kind == ast.KindTable {
		return
	}
	if p.nextBlockIsListOrTable() {
		return
	}
	for i := 0; i < empties; i++ {
		p.doc.AppendChild(ast.NewNode(ast.KindParagraph))
	}
}

func (p *blockParser) nextBlockIsListOrTable() bool {
	if p.pos >= len(p.lines) {
		return false
	}
	return isListLine(p.lines[p.pos]) || p.isTableStart()
}

func (p *blockParser) parseFencedCode() {
	m := fenceRe.FindStringSubmatch(p.lines[p.pos])
	fenceChar := m[1][0]
	fenceLen := len(m[1])
	p.pos++

	code := &ast.Node{Kind: ast.KindCodeBlock, Language: m[2], Fenced: true}
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if isClosingFence(line, fenceChar, fenceLen) {
			p.pos++
			break
		}
		code.AppendChild(newCodeLine(line))
		p.pos++
	}
	p.doc.AppendChild(code)
}

func isClosingFence(line string, fenceChar byte, fenceLen int) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < fenceLen {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != fenceChar {
			return false
		}
	}
	return true
}

func (p *blockParser) parseIndentedCode() {
	code := &ast.Node{Kind: ast.KindCodeBlock}
	for p.pos < len(p.lines) && isIndentedCode(p.lines[p.pos]) {
		code.AppendChild(newCodeLine(p.lines[p.pos][4:]))
		p.pos++
	}
	p.doc.AppendChild(code)
}

func newCodeLine(text string) *ast.Node {
	line := ast.NewNode(ast.KindCodeLine)
	if text != "" {
		line.AppendChild(ast.NewText(text))
	}
	return line
}

// parseBlockquote collects consecutive ">" lines into one quote. A lone ">"
// is an empty continuation line inside the quote; a blank line ends the
// quote, so two quotes separated by a blank never merge.
func (p *blockParser) parseBlockquote() {
	var content []string
	for p.pos < len(p.lines) {
		m := quoteRe.FindStringSubmatch(p.lines[p.pos])
		if m == nil {
			break
		}
		content = append(content, strings.TrimPrefix(m[1], " "))
		p.pos++
	}

	quote := ast.NewNode(ast.KindBlockquote)
	quote.Children = parseInline(strings.Join(content, "\n"))
	p.doc.AppendChild(quote)
}

type listLine struct {
	depth   int
	kind    ast.NodeKind
	checked bool
	content string
}

func matchListLine(line string) (listLine, bool) {
	if m := bulletRe.FindStringSubmatch(line); m != nil {
		return listLine{
			depth:   len(m[1]) / listIndentWidth,
			kind:    ast.KindBulletedList,
			content: m[3],
		}, true
	}
	if m := orderedRe.FindStringSubmatch(line); m != nil {
		return listLine{
			depth:   len(m[1]) / listIndentWidth,
			kind:    ast.KindOrderedList,
			content: m[2],
		}, true
	}
	if m := todoRe.FindStringSubmatch(line); m != nil {
		return listLine{
			depth:   len(m[1]) / listIndentWidth,
			kind:    ast.KindTodoList,
			checked: m[2] == "x" || m[2] == "X",
			content: m[3],
		}, true
	}
	return listLine{}, false
}

func isListLine(line string) bool {
	_, ok := matchListLine(line)
	return ok
}

// parseList consumes a run of list-item lines. Indentation controls
// nesting: a deeper item opens a new list as a child of the previous item,
// a dedent returns to the enclosing list. A dedent to a depth no list is
// open at reopens a list at that depth under the enclosing item. A change
// of marker family ends the list; the next call starts a sibling list.
func (p *blockParser) parseList() {
	type openList struct {
		list  *ast.Node
		depth int
	}
	var stack []openList

	for p.pos < len(p.lines) {
		item, ok := matchListLine(p.lines[p.pos])
		if !ok {
			break
		}

		if len(stack) == 0 {
			list := ast.NewNode(item.kind)
			p.doc.AppendChild(list)
			stack = append(stack, openList{list: list, depth: item.depth})
		} else {
			for len(stack) > 1 && item.depth < stack[len(stack)-1].depth {
				stack = stack[:len(stack)-1]
			}
			top := &stack[len(stack)-1]
			if item.depth > top.depth {
				// Deeper than the innermost open level, or a dedent that
				// landed between two open levels.
				parentItem := top.list.LastChild()
				if parentItem == nil {
					break
				}
				list := ast.NewNode(item.kind)
				parentItem.AppendChild(list)
				stack = append(stack, openList{list: list, depth: item.depth})
			} else if item.depth < top.depth || top.list.Kind != item.kind {
				// Shallower than the outermost list, or the marker family
				// changed: this line starts a new list.
				break
			}
		}

		li := &ast.Node{Kind: ast.KindListItem, Checked: item.checked}
		li.Children = parseInline(item.content)
		stack[len(stack)-1].list.AppendChild(li)
		p.pos++
	}
}

func (p *blockParser) isTableStart() bool {
	if p.pos+1 >= len(p.lines) {
		return false
	}
	return isTableLine(p.lines[p.pos]) && isTableSeparator(p.lines[p.pos+1])
}

func isTableLine(line string) bool {
	return !isBlank(line) && strings.Contains(line, "|")
}

func isTableSeparator(line string) bool {
	if !strings.Contains(line, "|") {
		return false
	}
	cells := splitTableRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if !tableSepCellRe.MatchString(cell) {
			return false
		}
	}
	return true
}

func splitTableRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	parts := strings.Split(s, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}

// parseTable reads a header row, derives per-column alignment from the
// separator row once, and applies it to every cell of the column.
func (p *blockParser) parseTable() {
	table := ast.NewNode(ast.KindTable)

	header := splitTableRow(p.lines[p.pos])
	aligns := parseAligns(splitTableRow(p.lines[p.pos+1]))
	p.pos += 2

	table.AppendChild(newTableRow(header, aligns))
	for p.pos < len(p.lines) && isTableLine(p.lines[p.pos]) {
		table.AppendChild(newTableRow(splitTableRow(p.lines[p.pos]), aligns))
		p.pos++
	}

	p.doc.AppendChild(table)
}

func parseAligns(cells []string) []ast.CellAlign {
	aligns := make([]ast.CellAlign, len(cells))
	for i, cell := range cells {
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		switch {
		case left && right:
			aligns[i] = ast.AlignCenter
		case right:
			aligns[i] = ast.AlignRight
		case left:
			aligns[i] = ast.AlignLeft
		default:
			aligns[i] = ast.AlignNone
		}
	}
	return aligns
}

func newTableRow(cells []string, aligns []ast.CellAlign) *ast.Node {
	row := ast.NewNode(ast.KindTableRow)
	for i, text := range cells {
		cell := ast.NewNode(ast.KindTableCell)
		if i < len(aligns) {
			cell.Align = aligns[i]
		}
		cell.Children = parseInline(text)
		row.AppendChild(cell)
	}
	return row
}

// parseParagraph is the fallback rule: consecutive non-blank lines not
// claimed by another rule. Lines that look like "---"/"===" underlines are
// absorbed as literal text; Setext headings are deliberately not part of
// the grammar.
func (p *blockParser) parseParagraph() {
	var lines []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if isBlank(line) {
			break
		}
		if len(lines) > 0 && p.interruptsParagraph(line) {
			break
		}
		lines = append(lines, line)
		p.pos++
	}

	para := ast.NewNode(ast.KindParagraph)
	para.Children = parseInline(strings.Join(lines, "\n"))
	p.doc.AppendChild(para)
}

func (p *blockParser) interruptsParagraph(line string) bool {
	if isThematicBreak(line) {
		return false
	}
	return headingRe.MatchString(line) ||
		fenceRe.MatchString(line) ||
		quoteRe.MatchString(line) ||
		isListLine(line) ||
		p.isTableStart()
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isThematicBreak(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "---" || trimmed == "==="
}

func isIndentedCode(line string) bool {
	return strings.HasPrefix(line, "    ") && !isBlank(line) && !isListLine(line)
}
