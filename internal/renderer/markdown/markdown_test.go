package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treetext/marktree/pkg/ast"
)

func paragraph(children ...*ast.Node) *ast.Node {
	return ast.NewNode(ast.KindParagraph).AppendChild(children...)
}

func doc(children ...*ast.Node) *ast.Node {
	return ast.NewNode(ast.KindDocument).AppendChild(children...)
}

func render(t *testing.T, n *ast.Node, opts Options) string {
	t.Helper()
	out, err := Render(n, opts)
	require.NoError(t, err)
	return string(out)
}

func TestRender_NilDocument(t *testing.T) {
	_, err := Render(nil, Options{})
	require.Error(t, err)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", render(t, doc(), Options{}))
}

func TestRender_Paragraph(t *testing.T) {
	tree := doc(paragraph(ast.NewText("hello")))
	assert.Equal(t, "hello\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_HeadingLevelClamped(t *testing.T) {
	low := doc(&ast.Node{Kind: ast.KindHeading, Level: 0, Children: []*ast.Node{ast.NewText("x")}})
	assert.Equal(t, "# x\n", render(t, low, Options{FinalLineBreaks: 1}))

	high := doc(&ast.Node{Kind: ast.KindHeading, Level: 9, Children: []*ast.Node{ast.NewText("x")}})
	assert.Equal(t, "###### x\n", render(t, high, Options{FinalLineBreaks: 1}))
}

func TestRender_EmptyHeadingHasNoTrailingSpace(t *testing.T) {
	tree := doc(&ast.Node{Kind: ast.KindHeading, Level: 2})
	assert.Equal(t, "##\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_ThematicBreakDefaultMarker(t *testing.T) {
	tree := doc(ast.NewNode(ast.KindThematicBreak))
	assert.Equal(t, "---\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_MarkAdjacency(t *testing.T) {
	// A run of leaves sharing a mark gets one delimiter pair around the
	// whole run, with continuing marks outermost.
	tree := doc(paragraph(
		ast.NewText("nothing "),
		ast.NewText("italic and ", ast.MarkItalic),
		ast.NewText("bold", ast.MarkItalic, ast.MarkBold),
		ast.NewText(" and", ast.MarkItalic),
		ast.NewText(" nothing"),
	))
	assert.Equal(t,
		"nothing _italic and **bold** and_ nothing\n",
		render(t, tree, Options{FinalLineBreaks: 1}),
	)
}

func TestRender_MarkOrderNormalized(t *testing.T) {
	// The bold mark continues from the previous leaf, so it must close
	// after the italic mark regardless of the leaf's own mark order.
	tree := doc(paragraph(
		ast.NewText("all", ast.MarkBold),
		ast.NewText("most", ast.MarkItalic, ast.MarkBold),
	))
	assert.Equal(t, "**all_most_**\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_CodeMarkNotEscaped(t *testing.T) {
	tree := doc(paragraph(
		ast.NewText("a*b", ast.MarkCode),
		ast.NewText(" a*b"),
	))
	assert.Equal(t, "`a*b` a\\*b\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_EmptyParagraphsPreserved(t *testing.T) {
	tree := doc(
		paragraph(ast.NewText("a")),
		ast.NewNode(ast.KindParagraph),
		ast.NewNode(ast.KindParagraph),
		paragraph(ast.NewText("b")),
	)
	assert.Equal(t, "a\n\n\n\nb\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_CodeBlockFence(t *testing.T) {
	code := &ast.Node{Kind: ast.KindCodeBlock, Language: "go", Fenced: true}
	code.AppendChild(
		ast.NewNode(ast.KindCodeLine).AppendChild(ast.NewText("fmt.Println(`hi`)")),
		ast.NewNode(ast.KindCodeLine),
		ast.NewNode(ast.KindCodeLine).AppendChild(ast.NewText("return")),
	)
	tree := doc(code)
	assert.Equal(t,
		"```go\nfmt.Println(`hi`)\n\nreturn\n```\n",
		render(t, tree, Options{FinalLineBreaks: 1}),
	)
}

func TestRender_CodeBlockFenceGrows(t *testing.T) {
	code := &ast.Node{Kind: ast.KindCodeBlock, Fenced: true}
	code.AppendChild(ast.NewNode(ast.KindCodeLine).AppendChild(ast.NewText("``` inside")))
	tree := doc(code)
	assert.Equal(t, "````\n``` inside\n````\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_IndentedCodeBlock(t *testing.T) {
	code := &ast.Node{Kind: ast.KindCodeBlock}
	code.AppendChild(ast.NewNode(ast.KindCodeLine).AppendChild(ast.NewText("x := 1")))
	tree := doc(code)
	assert.Equal(t, "    x := 1\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_NestedList(t *testing.T) {
	inner := ast.NewNode(ast.KindBulletedList).AppendChild(
		(&ast.Node{Kind: ast.KindListItem}).AppendChild(ast.NewText("b")),
	)
	tree := doc(ast.NewNode(ast.KindBulletedList).AppendChild(
		(&ast.Node{Kind: ast.KindListItem}).AppendChild(ast.NewText("a"), inner),
		(&ast.Node{Kind: ast.KindListItem}).AppendChild(ast.NewText("c")),
	))
	assert.Equal(t, "* a\n  * b\n* c\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_ListMarkers(t *testing.T) {
	ordered := ast.NewNode(ast.KindOrderedList).AppendChild(
		(&ast.Node{Kind: ast.KindListItem}).AppendChild(ast.NewText("first")),
		(&ast.Node{Kind: ast.KindListItem}).AppendChild(ast.NewText("second")),
	)
	todo := ast.NewNode(ast.KindTodoList).AppendChild(
		(&ast.Node{Kind: ast.KindListItem, Checked: true}).AppendChild(ast.NewText("done")),
		(&ast.Node{Kind: ast.KindListItem}).AppendChild(ast.NewText("open")),
	)
	tree := doc(ordered, todo)
	assert.Equal(t,
		"1. first\n1. second\n\n[x] done\n[ ] open\n",
		render(t, tree, Options{FinalLineBreaks: 1}),
	)
}

func TestRender_Table(t *testing.T) {
	row := func(aligns []ast.CellAlign, cells ...string) *ast.Node {
		r := ast.NewNode(ast.KindTableRow)
		for i, text := range cells {
			cell := &ast.Node{Kind: ast.KindTableCell, Align: aligns[i]}
			cell.AppendChild(ast.NewText(text))
			r.AppendChild(cell)
		}
		return r
	}
	aligns := []ast.CellAlign{ast.AlignLeft, ast.AlignCenter, ast.AlignRight}
	tree := doc(ast.NewNode(ast.KindTable).AppendChild(
		row(aligns, "a", "b", "c"),
		row(aligns, "1", "2", "3"),
	))
	assert.Equal(t,
		"| a | b | c |\n| :-- | :-: | --: |\n| 1 | 2 | 3 |\n",
		render(t, tree, Options{FinalLineBreaks: 1}),
	)
}

func TestRender_Link(t *testing.T) {
	link := &ast.Node{Kind: ast.KindLink, Destination: "https://example.com"}
	link.AppendChild(ast.NewText("site"))
	tree := doc(paragraph(link))
	assert.Equal(t, "[site](https://example.com)\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_DegenerateLink(t *testing.T) {
	link := &ast.Node{Kind: ast.KindLink}
	link.AppendChild(ast.NewText("survives"))
	tree := doc(paragraph(link))
	assert.Equal(t, "survives\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_Image(t *testing.T) {
	tree := doc(paragraph(&ast.Node{
		Kind:        ast.KindImage,
		Alt:         "logo",
		Destination: "logo.png",
		Title:       "The logo",
	}))
	assert.Equal(t, "![logo](logo.png \"The logo\")\n", render(t, tree, Options{FinalLineBreaks: 1}))
}

func TestRender_CRLF(t *testing.T) {
	tree := doc(
		paragraph(ast.NewText("a")),
		paragraph(ast.NewText("b")),
	)
	out := render(t, tree, Options{LineBreak: []byte("\r\n"), FinalLineBreaks: 1})
	assert.Equal(t, "a\r\n\r\nb\r\n", out)
}

func TestRender_BlockquoteWithBlankLine(t *testing.T) {
	quote := ast.NewNode(ast.KindBlockquote)
	quote.AppendChild(ast.NewText("a\n\nb"))
	tree := doc(quote)
	assert.Equal(t, "> a\n>\n> b\n", render(t, tree, Options{FinalLineBreaks: 1}))
}
