// Package document converts markdown text to a rich-text document tree and
// back. Parsing is total and permissive: malformed constructs degrade to
// plain paragraphs instead of failing.
package document

import (
	"bytes"
	"sync"

	"github.com/treetext/marktree/internal/renderer/markdown"
	"github.com/treetext/marktree/pkg/ast"
)

// Document wraps one markdown source. It splits off frontmatter, detects
// the line-break convention and parses the content lazily, exactly once.
type Document struct {
	source []byte

	onceParse               sync.Once
	root                    *ast.Node
	frontmatterRaw          []byte
	content                 []byte
	lineBreak               []byte
	trailingLineBreaksCount int

	onceParseFrontmatter sync.Once
	frontmatter          *Frontmatter
	parseFrontmatterErr  error
}

// New creates a document from source. Nothing is parsed until the first
// accessor call.
func New(source []byte) *Document {
	return &Document{source: source}
}

// Root returns the root of the block tree.
func (d *Document) Root() *ast.Node {
	d.parse()
	return d.root
}

// Content returns the source without frontmatter.
func (d *Document) Content() []byte {
	d.parse()
	return d.content
}

// FrontmatterRaw returns the verbatim frontmatter bytes, delimiters
// included, or nil when the document has none.
func (d *Document) FrontmatterRaw() []byte {
	d.parse()
	return d.frontmatterRaw
}

// Frontmatter parses the raw frontmatter leniently. The raw bytes are
// retained even when parsing fails.
func (d *Document) Frontmatter() (*Frontmatter, error) {
	d.parse()
	d.onceParseFrontmatter.Do(func() {
		if len(d.frontmatterRaw) == 0 {
			return
		}
		d.frontmatter, d.parseFrontmatterErr = ParseFrontmatter(d.frontmatterRaw)
	})
	return d.frontmatter, d.parseFrontmatterErr
}

// LineBreak returns the detected line-break sequence of the source.
func (d *Document) LineBreak() []byte {
	d.parse()
	return d.lineBreak
}

// TrailingLineBreaksCount returns how many line breaks terminate the
// source. Render restores exactly that many.
func (d *Document) TrailingLineBreaksCount() int {
	d.parse()
	return d.trailingLineBreaksCount
}

// Render serializes the document back to markdown, reattaching frontmatter
// and restoring the line-break convention and trailing line breaks.
func (d *Document) Render() ([]byte, error) {
	d.parse()

	body, err := markdown.Render(d.root, markdown.Options{
		LineBreak:       d.lineBreak,
		FinalLineBreaks: d.trailingLineBreaksCount,
	})
	if err != nil {
		return nil, err
	}

	if len(d.frontmatterRaw) == 0 {
		return body, nil
	}

	out := make([]byte, 0, len(d.frontmatterRaw)+2*len(d.lineBreak)+len(body))
	out = append(out, d.frontmatterRaw...)
	if len(body) > 0 {
		out = append(out, bytes.Repeat(d.lineBreak, 2)...)
		out = append(out, body...)
	} else {
		out = append(out, bytes.Repeat(d.lineBreak, d.trailingLineBreaksCount)...)
	}
	return out, nil
}

func (d *Document) parse() {
	d.onceParse.Do(func() {
		d.frontmatterRaw, d.content = splitFrontmatter(d.source)
		d.lineBreak = detectLineBreak(d.source)

		normalized := bytes.ReplaceAll(d.content, []byte("\r\n"), []byte("\n"))
		d.trailingLineBreaksCount = countTrailingLineBreaks(normalized, []byte("\n"))
		if len(normalized) == 0 && len(d.frontmatterRaw) > 0 {
			// Blank lines after the frontmatter were swallowed by the split.
			src := bytes.ReplaceAll(d.source, []byte("\r\n"), []byte("\n"))
			d.trailingLineBreaksCount = countTrailingLineBreaks(src, []byte("\n"))
		}

		trimmed := bytes.TrimRight(normalized, "\n")
		d.root = parseBlocks(string(trimmed))
	})
}

// Parse builds the block tree for source. It never fails; unrecognized
// input parses as paragraphs. Frontmatter, line-break and trailing-break
// details are available through New instead.
func Parse(source []byte) *ast.Node {
	return New(source).Root()
}

// Render serializes a tree with default conventions: "\n" line breaks and a
// single trailing line break (none for an empty tree). Use Document.Render
// to reproduce a source's exact trailing breaks.
func Render(root *ast.Node) ([]byte, error) {
	finalLineBreaks := 1
	if root == nil || len(root.Children) == 0 {
		finalLineBreaks = 0
	}
	return markdown.Render(root, markdown.Options{FinalLineBreaks: finalLineBreaks})
}

// Escape makes text safe to embed in markdown as literal content. See the
// renderer package for the exact rules.
func Escape(text string) string {
	return markdown.Escape(text)
}

func detectLineBreak(source []byte) []byte {
	crlfCount := bytes.Count(source, []byte{'\r', '\n'})
	lfCount := bytes.Count(source, []byte{'\n'})
	if crlfCount == lfCount && crlfCount > 0 {
		return []byte{'\r', '\n'}
	}
	return []byte{'\n'}
}

func countTrailingLineBreaks(source []byte, lineBreak []byte) int {
	i := len(source) - len(lineBreak)
	numBreaks := 0
	for i >= 0 && bytes.Equal(source[i:i+len(lineBreak)], lineBreak) {
		i -= len(lineBreak)
		numBreaks++
	}
	return numBreaks
}
