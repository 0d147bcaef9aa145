package document

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/treetext/marktree/pkg/ast"
)

var (
	inlineImageRe = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)\s]*)(?:\s+"([^"]*)")?\)`)
	inlineLinkRe  = regexp.MustCompile(`^\[([^\]]*)\]\(([^)\s]*)\)`)
)

// markToken is an inline delimiter in match order. Two-character tokens come
// first so that "**" is not read as two italic stars and "__" not as two
// italic underscores.
type markToken struct {
	token string
	mark  ast.Mark
}

var markTokens = []markToken{
	{"**", ast.MarkBold},
	{"__", ast.MarkUnderlined},
	{"~~", ast.MarkDeleted},
	{"++", ast.MarkInserted},
	{"*", ast.MarkItalic},
	{"_", ast.MarkItalic},
}

// parseInline tokenizes a text span into text leaves, links, images and
// hashtags. Marks nest by recursion: the interior of a delimited span is
// parsed again with the span's mark added to the active set, so every leaf
// ends up with the full ordered set of marks covering its position.
func parseInline(text string) []*ast.Node {
	return parseInlineMarks(text, nil)
}

func parseInlineMarks(text string, marks []ast.Mark) []*ast.Node {
	var nodes []*ast.Node
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			nodes = append(nodes, ast.NewText(lit.String(), cloneMarks(marks)...))
			lit.Reset()
		}
	}

	i := 0
	for i < len(text) {
		c := text[i]

		// Escaped metacharacter: drop the backslash, keep the character.
		if c == '\\' && i+1 < len(text) && isEscapable(text[i+1]) {
			_ = lit.WriteByte(text[i+1])
			i += 2
			continue
		}

		// Inline code: content between backticks is taken verbatim, no
		// nested marks and no unescaping.
		if c == '`' {
			if j := strings.IndexByte(text[i+1:], '`'); j > 0 {
				flush()
				content := text[i+1 : i+1+j]
				nodes = append(nodes, ast.NewText(content, append(cloneMarks(marks), ast.MarkCode)...))
				i += j + 2
				continue
			}
			_ = lit.WriteByte(c)
			i++
			continue
		}

		if c == '!' && i+1 < len(text) && text[i+1] == '[' {
			if m := inlineImageRe.FindStringSubmatch(text[i:]); m != nil {
				flush()
				alt, src, title := m[1], m[2], m[3]
				if src == "" {
					// Image without a target degenerates to its alt text.
					if alt != "" {
						nodes = append(nodes, ast.NewText(alt, cloneMarks(marks)...))
					}
				} else {
					nodes = append(nodes, &ast.Node{
						Kind:        ast.KindImage,
						Alt:         alt,
						Destination: src,
						Title:       title,
					})
				}
				i += len(m[0])
				continue
			}
		}

		if c == '[' {
			if m := inlineLinkRe.FindStringSubmatch(text[i:]); m != nil {
				flush()
				inner, href := m[1], m[2]
				children := parseInlineMarks(inner, marks)
				if href == "" {
					// Designed degradation: the text survives, the link
					// wrapper does not.
					nodes = append(nodes, children...)
				} else {
					link := &ast.Node{Kind: ast.KindLink, Destination: href}
					link.Children = children
					nodes = append(nodes, link)
				}
				i += len(m[0])
				continue
			}
		}

		if tok, ok := matchMarkToken(text[i:]); ok {
			rest := text[i+len(tok.token):]
			j := strings.Index(rest, tok.token)
			if j > 0 {
				flush()
				inner := rest[:j]
				nodes = append(nodes, parseInlineMarks(inner, append(cloneMarks(marks), tok.mark))...)
				i += 2*len(tok.token) + j
			} else {
				// Unterminated delimiter stays literal text.
				_, _ = lit.WriteString(tok.token)
				i += len(tok.token)
			}
			continue
		}

		if c == '#' && i+1 < len(text) && isTagRune(firstRune(text[i+1:])) {
			j := i + 1
			for j < len(text) {
				r, size := utf8.DecodeRuneInString(text[j:])
				// A backslash ends the tag; the escape sequence belongs
				// to the following text leaf.
				if unicode.IsSpace(r) || r == '-' || r == '\\' {
					break
				}
				j += size
			}
			flush()
			tag := &ast.Node{Kind: ast.KindHashtag}
			tag.AppendChild(ast.NewText(text[i+1:j], cloneMarks(marks)...))
			nodes = append(nodes, tag)
			i = j
			continue
		}

		_ = lit.WriteByte(c)
		i++
	}

	flush()
	return nodes
}

func matchMarkToken(s string) (markToken, bool) {
	for _, tok := range markTokens {
		if strings.HasPrefix(s, tok.token) {
			return tok, true
		}
	}
	return markToken{}, false
}

func cloneMarks(marks []ast.Mark) []ast.Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]ast.Mark, len(marks))
	copy(out, marks)
	return out
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// isTagRune reports whether a rune may start a hashtag. "#" followed by
// whitespace or punctuation is not a tag.
func isTagRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isEscapable reports whether a backslash before the byte forms an escape
// sequence. Letters and digits never do; "\n" in a span is a literal
// backslash followed by a line break.
func isEscapable(c byte) bool {
	return c > ' ' && c < 0x7f &&
		!(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z')
}
