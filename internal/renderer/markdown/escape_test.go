package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "ListMarker",
			input:    "1. not a list",
			expected: `1\. not a list`,
		},
		{
			name:     "WordPeriod",
			input:    "Sentence. It ends.",
			expected: `Sentence\. It ends.`,
		},
		{
			name:     "Heading",
			input:    "# not a heading",
			expected: `\# not a heading`,
		},
		{
			name:     "HashtagUntouched",
			input:    "keep #tag as is",
			expected: "keep #tag as is",
		},
		{
			name:     "Blockquote",
			input:    "> not a quote",
			expected: `\> not a quote`,
		},
		{
			name:     "LeadingDash",
			input:    "- not a bullet",
			expected: `\- not a bullet`,
		},
		{
			name:     "LeadingPlus",
			input:    "+ not a bullet",
			expected: `\+ not a bullet`,
		},
		{
			name:     "Image",
			input:    "![alt](src)",
			expected: `\!\[alt\]\(src\)`,
		},
		{
			name:     "Link",
			input:    "[text](url)",
			expected: `\[text\]\(url\)`,
		},
		{
			name:     "CatchAll",
			input:    "a *b* _c_ {d} [e]",
			expected: `a \*b\* \_c\_ \{d\} \[e\]`,
		},
		{
			name:     "Backtick",
			input:    "a `b`",
			expected: "a \\`b\\`",
		},
		{
			name:     "Backslash",
			input:    `a\b`,
			expected: `a\\b`,
		},
		{
			name:     "BackslashBeforeMeta",
			input:    `a\*b`,
			expected: `a\\\*b`,
		},
		{
			name:     "Empty",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Escape(tc.input))
		})
	}
}
