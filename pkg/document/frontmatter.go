package document

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrFrontmatterInvalid is returned when frontmatter delimiters are present
// but the payload does not parse. The raw bytes are still preserved.
var ErrFrontmatterInvalid = stderrors.New("invalid frontmatter")

const (
	frontmatterFormatYAML = "yaml"
	frontmatterFormatTOML = "toml"
	frontmatterFormatJSON = "json"
)

// Frontmatter is the leading metadata block of a document. Raw holds the
// exact source bytes including delimiters; Fields is a lenient generic view
// of the payload.
type Frontmatter struct {
	Raw    string
	Format string
	Fields map[string]interface{}
}

// ParseFrontmatter decodes raw frontmatter, delimiters included, detecting
// YAML ("---"), TOML ("+++") or JSON ("{").
func ParseFrontmatter(raw []byte) (*Frontmatter, error) {
	f := &Frontmatter{Raw: string(raw)}

	switch {
	case bytes.HasPrefix(raw, []byte("---")):
		f.Format = frontmatterFormatYAML
		if err := yaml.Unmarshal(stripDelimiters(raw), &f.Fields); err != nil {
			return f, errors.Wrap(ErrFrontmatterInvalid, err.Error())
		}
	case bytes.HasPrefix(raw, []byte("+++")):
		f.Format = frontmatterFormatTOML
		if err := toml.Unmarshal(stripDelimiters(raw), &f.Fields); err != nil {
			return f, errors.Wrap(ErrFrontmatterInvalid, err.Error())
		}
	case bytes.HasPrefix(raw, []byte("{")):
		f.Format = frontmatterFormatJSON
		if err := json.Unmarshal(raw, &f.Fields); err != nil {
			return f, errors.Wrap(ErrFrontmatterInvalid, err.Error())
		}
	default:
		return f, errors.Wrap(ErrFrontmatterInvalid, "unknown delimiter")
	}

	return f, nil
}

// splitFrontmatter separates a leading frontmatter block from the content.
// Supported are "---" and "+++" fenced blocks and a top-level JSON object.
// Without a closing delimiter everything is content; a lone "---" line thus
// stays a thematic break.
func splitFrontmatter(source []byte) (raw, content []byte) {
	s := string(source)

	if strings.HasPrefix(s, "{") {
		if end, ok := scanJSONObject(s); ok {
			return []byte(s[:end]), []byte(skipBlankLines(s[end:]))
		}
		return nil, source
	}

	var delimiter string
	switch {
	case strings.HasPrefix(s, "---"):
		delimiter = "---"
	case strings.HasPrefix(s, "+++"):
		delimiter = "+++"
	default:
		return nil, source
	}

	lineEnd := strings.IndexByte(s, '\n')
	if lineEnd < 0 || strings.TrimRight(s[:lineEnd], "\r") != delimiter {
		return nil, source
	}

	offset := lineEnd + 1
	for offset < len(s) {
		next := strings.IndexByte(s[offset:], '\n')
		line := s[offset:]
		end := len(s)
		if next >= 0 {
			line = s[offset : offset+next]
			end = offset + next
		}
		if strings.TrimRight(line, "\r") == delimiter {
			return []byte(s[:end]), []byte(skipBlankLines(s[end:]))
		}
		if next < 0 {
			break
		}
		offset = end + 1
	}

	return nil, source
}

// scanJSONObject finds the end of a top-level JSON object, tracking quotes
// and escapes so braces inside strings do not count.
func scanJSONObject(s string) (int, bool) {
	var inQuote bool
	level := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if !inQuote {
				level++
			}
		case '}':
			if !inQuote {
				level--
				if level == 0 {
					return i + 1, true
				}
			}
		case '"':
			inQuote = !inQuote
		case '\\':
			i++
		}
	}
	return 0, false
}

func skipBlankLines(s string) string {
	for {
		lineEnd := strings.IndexByte(s, '\n')
		if lineEnd < 0 {
			if strings.TrimSpace(s) == "" {
				return ""
			}
			return s
		}
		if strings.TrimSpace(s[:lineEnd]) != "" {
			return s
		}
		s = s[lineEnd+1:]
	}
}

// stripDelimiters drops the first and last delimiter lines of a fenced
// frontmatter block.
func stripDelimiters(raw []byte) []byte {
	start := bytes.IndexByte(raw, '\n')
	if start < 0 {
		return nil
	}
	end := bytes.LastIndexByte(raw[:len(raw)-1], '\n')
	if end <= start {
		return nil
	}
	return raw[start+1 : end+1]
}
