package ast

// NodeKind discriminates the variants of Node. Every node carries a kind;
// the fields that are meaningful for a given kind are documented on Node.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindParagraph
	KindHeading
	KindBlockquote
	KindCodeBlock
	KindCodeLine
	KindThematicBreak
	KindOrderedList
	KindBulletedList
	KindTodoList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
	KindImage
	KindLink
	KindHashtag
	KindText
)

var kindNames = [...]string{
	"Document",
	"Paragraph",
	"Heading",
	"Blockquote",
	"CodeBlock",
	"CodeLine",
	"ThematicBreak",
	"OrderedList",
	"BulletedList",
	"TodoList",
	"ListItem",
	"Table",
	"TableRow",
	"TableCell",
	"Image",
	"Link",
	"Hashtag",
	"Text",
}

func (k NodeKind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IsList reports whether the kind is one of the three list container kinds.
func (k NodeKind) IsList() bool {
	return k == KindOrderedList || k == KindBulletedList || k == KindTodoList
}

// Mark is an inline formatting attribute applied to a text leaf.
type Mark int

const (
	MarkBold Mark = iota
	MarkItalic
	MarkCode
	MarkInserted
	MarkDeleted
	MarkUnderlined
)

var markNames = [...]string{
	"Bold",
	"Italic",
	"Code",
	"Inserted",
	"Deleted",
	"Underlined",
}

func (m Mark) String() string {
	if int(m) < 0 || int(m) >= len(markNames) {
		return "Unknown"
	}
	return markNames[m]
}

// CellAlign is the column alignment of a table cell, derived once from the
// table's separator row.
type CellAlign int

const (
	AlignNone CellAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a CellAlign) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "none"
	}
}

// Node is a single node of the document tree. It is a tagged variant:
// Kind selects which of the optional fields are meaningful. Ownership is
// strictly tree-shaped; nodes do not hold back-references to their parents.
// Parent relations are derived during traversal (see Walk).
type Node struct {
	Kind     NodeKind
	Children []*Node

	// Text and Marks are set for KindText only. Marks is an ordered set,
	// unique by mark type; the order is significant for serialization.
	Text  string
	Marks []Mark

	Level       int       // KindHeading: 1..6
	Language    string    // KindCodeBlock: info string language tag
	Fenced      bool      // KindCodeBlock: fenced vs indented
	Marker      string    // KindThematicBreak: "---" or "==="
	Checked     bool      // KindListItem inside a todo list
	Align       CellAlign // KindTableCell
	Destination string    // KindLink: href; KindImage: src
	Alt         string    // KindImage
	Title       string    // KindImage, optional
}

// NewNode returns an empty node of the given kind.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewText returns a text leaf carrying the given marks.
func NewText(text string, marks ...Mark) *Node {
	return &Node{Kind: KindText, Text: text, Marks: marks}
}

// AppendChild appends children to the node and returns it.
func (n *Node) AppendChild(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// HasMark reports whether a text leaf carries the given mark. It returns
// false for non-text nodes.
func (n *Node) HasMark(m Mark) bool {
	if n == nil || n.Kind != KindText {
		return false
	}
	for _, mark := range n.Marks {
		if mark == m {
			return true
		}
	}
	return false
}

// AddMark appends a mark unless the leaf already carries it.
func (n *Node) AddMark(m Mark) {
	if !n.HasMark(m) {
		n.Marks = append(n.Marks, m)
	}
}
