package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Marks(t *testing.T) {
	leaf := NewText("x", MarkBold)
	assert.True(t, leaf.HasMark(MarkBold))
	assert.False(t, leaf.HasMark(MarkItalic))

	leaf.AddMark(MarkItalic)
	leaf.AddMark(MarkItalic)
	assert.Equal(t, []Mark{MarkBold, MarkItalic}, leaf.Marks)

	// Marks are meaningful for text leaves only.
	assert.False(t, NewNode(KindParagraph).HasMark(MarkBold))

	var nilNode *Node
	assert.False(t, nilNode.HasMark(MarkBold))
}

func TestNode_Children(t *testing.T) {
	n := NewNode(KindParagraph)
	assert.Nil(t, n.FirstChild())
	assert.Nil(t, n.LastChild())

	a, b := NewText("a"), NewText("b")
	n.AppendChild(a, b)
	assert.Same(t, a, n.FirstChild())
	assert.Same(t, b, n.LastChild())
}

func buildTree() *Node {
	heading := &Node{Kind: KindHeading, Level: 1}
	heading.AppendChild(NewText("title"))
	para := NewNode(KindParagraph)
	para.AppendChild(NewText("body", MarkBold))
	return NewNode(KindDocument).AppendChild(heading, para)
}

func TestWalk_Order(t *testing.T) {
	var entered []NodeKind
	var maxDepth int

	err := Walk(buildTree(), func(n *Node, ancestors []*Node, entering bool) (WalkStatus, error) {
		if entering {
			entered = append(entered, n.Kind)
			if len(ancestors) > maxDepth {
				maxDepth = len(ancestors)
			}
		}
		return WalkContinue, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []NodeKind{KindDocument, KindHeading, KindText, KindParagraph, KindText}, entered)
	assert.Equal(t, 2, maxDepth)
}

func TestWalk_SkipChildren(t *testing.T) {
	var entered []NodeKind

	err := Walk(buildTree(), func(n *Node, ancestors []*Node, entering bool) (WalkStatus, error) {
		if entering {
			entered = append(entered, n.Kind)
			if n.Kind == KindHeading {
				return WalkSkipChildren, nil
			}
		}
		return WalkContinue, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []NodeKind{KindDocument, KindHeading, KindParagraph, KindText}, entered)
}

func TestWalk_Stop(t *testing.T) {
	var entered []NodeKind

	err := Walk(buildTree(), func(n *Node, ancestors []*Node, entering bool) (WalkStatus, error) {
		if entering {
			entered = append(entered, n.Kind)
			if n.Kind == KindText {
				return WalkStop, nil
			}
		}
		return WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []NodeKind{KindDocument, KindHeading, KindText}, entered)
}

func TestFindNode(t *testing.T) {
	tree := buildTree()

	found := FindNode(tree, func(n *Node) bool { return n.HasMark(MarkBold) })
	require.NotNil(t, found)
	assert.Equal(t, "body", found.Text)

	assert.Nil(t, FindNode(tree, func(n *Node) bool { return n.Kind == KindTable }))
}

func TestNode_MarshalJSON(t *testing.T) {
	heading := &Node{Kind: KindHeading, Level: 2}
	heading.AppendChild(NewText("hi", MarkBold))

	out, err := heading.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"kind":"Heading","level":2,"children":[{"kind":"Text","text":"hi","marks":["Bold"]}]}`,
		string(out),
	)
}
