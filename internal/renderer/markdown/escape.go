package markdown

import (
	"regexp"
	"strings"
)

var (
	escListMarkerRe = regexp.MustCompile(`^(\s*\w+)\.`)
	escHeadingRe    = regexp.MustCompile(`#(\s)`)
	escQuoteRe      = regexp.MustCompile(`^(\s*)>`)
	escDashRe       = regexp.MustCompile(`^(\s*)-`)
	escPlusRe       = regexp.MustCompile(`^(\s*)\+`)
	escImageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
	escLinkRe       = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
)

// catchAll is the set of characters escaped wherever they appear, after the
// positional rules have run.
const catchAll = "`*{}[]_"

// Escape makes text safe to embed in markdown as literal content. It is not
// idempotent; callers must apply it exactly once per text leaf and never to
// content inside a code mark or code block.
//
// The rules run in a fixed order. Literal backslashes are doubled first so
// that backslashes inserted by later rules are not re-escaped, and the
// catch-all pass skips characters that an earlier rule already escaped.
func Escape(text string) string {
	s := strings.ReplaceAll(text, `\`, `\\`)
	// A leading "word." run would re-parse as an ordered-list marker.
	s = escListMarkerRe.ReplaceAllString(s, `$1\.`)
	// "#" is a heading marker only when followed by whitespace; a hashtag
	// ("#" glued to a word) stays untouched.
	s = escHeadingRe.ReplaceAllString(s, `\#$1`)
	s = escQuoteRe.ReplaceAllString(s, `$1\>`)
	s = escDashRe.ReplaceAllString(s, `$1\-`)
	s = escPlusRe.ReplaceAllString(s, `$1\+`)
	s = escImageRe.ReplaceAllString(s, `\![$1]($2)`)
	s = escLinkRe.ReplaceAllString(s, `\[$1\]\($2\)`)
	return escapeCatchAll(s)
}

// escapeCatchAll escapes the remaining markdown-active characters. A
// character preceded by an odd number of backslashes is already escaped and
// left alone.
func escapeCatchAll(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	backslashes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			backslashes++
			b.WriteByte(c)
			continue
		}
		if strings.IndexByte(catchAll, c) >= 0 && backslashes%2 == 0 {
			b.WriteByte('\\')
		}
		backslashes = 0
		b.WriteByte(c)
	}
	return b.String()
}
