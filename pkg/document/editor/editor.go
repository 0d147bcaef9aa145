// Package editor converts documents to notebook cells and back. The
// conversion is lossless: metadata on the notebook carries the details a
// flat cell list cannot express, such as frontmatter and trailing line
// breaks.
package editor

import (
	"bytes"
	"strconv"

	"go.uber.org/zap"

	"github.com/treetext/marktree/pkg/document"
)

// Options configures Deserialize and Serialize.
type Options struct {
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Deserialize turns markdown into a notebook. Every top-level block
// becomes one cell.
func Deserialize(data []byte, opts Options) (*Notebook, error) {
	doc := document.New(data)

	notebook := &Notebook{
		Cells: toCells(doc.Root()),
		Metadata: map[string]string{
			finalLineBreaksKey: strconv.Itoa(doc.TrailingLineBreaksCount()),
		},
	}
	if raw := doc.FrontmatterRaw(); len(raw) > 0 {
		notebook.Metadata[frontmatterKey] = string(raw)
	}

	opts.logger().Debug("deserialized notebook",
		zap.Int("cells", len(notebook.Cells)),
		zap.Int("bytes", len(data)),
	)
	return notebook, nil
}

// Serialize turns a notebook back into markdown, reattaching frontmatter
// and restoring the exact number of trailing line breaks.
func Serialize(notebook *Notebook, opts Options) ([]byte, error) {
	var result []byte

	if frontmatter, ok := notebook.Metadata[frontmatterKey]; ok {
		result = append(result, frontmatter...)
		if len(notebook.Cells) > 0 {
			result = append(result, '\n', '\n')
		}
	}

	result = append(result, serializeCells(notebook.Cells)...)

	if raw, ok := notebook.Metadata[finalLineBreaksKey]; ok {
		if desired, err := strconv.Atoi(raw); err == nil {
			result = withTrailingNewLines(result, desired)
		}
	}

	opts.logger().Debug("serialized notebook",
		zap.Int("cells", len(notebook.Cells)),
		zap.Int("bytes", len(result)),
	)
	return result, nil
}

func withTrailingNewLines(data []byte, count int) []byte {
	data = bytes.TrimRight(data, "\n")
	if len(data) == 0 && count == 0 {
		return data
	}
	return append(data, bytes.Repeat([]byte{'\n'}, count)...)
}
