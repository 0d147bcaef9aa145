package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeserialize(t *testing.T) {
	data := []byte(`# Examples

It can have an annotation with a name:

` + "```" + `sh
echo "Hello, marktree!"
` + "```" + `
`)

	notebook, err := Deserialize(data, Options{})
	require.NoError(t, err)
	require.Len(t, notebook.Cells, 3)

	assert.Equal(t, MarkupKind, notebook.Cells[0].Kind)
	assert.Equal(t, "# Examples", notebook.Cells[0].Value)

	assert.Equal(t, MarkupKind, notebook.Cells[1].Kind)
	assert.Equal(t, "It can have an annotation with a name:", notebook.Cells[1].Value)

	code := notebook.Cells[2]
	assert.Equal(t, CodeKind, code.Kind)
	assert.Equal(t, "sh", code.LanguageID)
	assert.Equal(t, `echo "Hello, marktree!"`, code.Value)

	assert.Equal(t, "1", notebook.Metadata[finalLineBreaksKey])
}

func TestSerialize_RoundTrip(t *testing.T) {
	sources := []string{
		"# Title\n\nSome text.\n",
		"a\n\n\nb\n",
		"```python\nprint(1)\n```\n",
		"    indented code\n",
		"* one\n* two\n\n| a |\n| --- |\n| 1 |\n",
		"para without trailing break",
	}

	for _, source := range sources {
		notebook, err := Deserialize([]byte(source), Options{})
		require.NoError(t, err)

		out, err := Serialize(notebook, Options{})
		require.NoError(t, err)
		assert.Equal(t, source, string(out))
	}
}

func TestSerialize_RoundTripFrontmatter(t *testing.T) {
	source := "---\ntitle: x\n---\n\n# H\n"

	notebook, err := Deserialize([]byte(source), Options{})
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: x\n---", notebook.Metadata[frontmatterKey])

	out, err := Serialize(notebook, Options{})
	require.NoError(t, err)
	assert.Equal(t, source, string(out))
}

func TestSerialize_IndentedCodeCell(t *testing.T) {
	source := "    legacy()\n"

	notebook, err := Deserialize([]byte(source), Options{})
	require.NoError(t, err)
	require.Len(t, notebook.Cells, 1)
	assert.Equal(t, "false", notebook.Cells[0].Metadata[fencedKey])

	out, err := Serialize(notebook, Options{})
	require.NoError(t, err)
	assert.Equal(t, source, string(out))
}

func TestSerialize_FenceGrowsAroundBackticks(t *testing.T) {
	notebook := &Notebook{
		Cells: []*Cell{
			{Kind: CodeKind, Value: "``` nested", LanguageID: "markdown"},
		},
	}

	out, err := Serialize(notebook, Options{})
	require.NoError(t, err)
	assert.Equal(t, "````markdown\n``` nested\n````\n", string(out))
}

func TestSerialize_EditedCell(t *testing.T) {
	notebook, err := Deserialize([]byte("# Old\n\ntext\n"), Options{})
	require.NoError(t, err)

	notebook.Cells[0].Value = "# New"

	out, err := Serialize(notebook, Options{})
	require.NoError(t, err)
	assert.Equal(t, "# New\n\ntext\n", string(out))
}
