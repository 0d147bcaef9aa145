package ast

import "encoding/json"

type jsonNode struct {
	Kind        string      `json:"kind"`
	Text        string      `json:"text,omitempty"`
	Marks       []string    `json:"marks,omitempty"`
	Level       int         `json:"level,omitempty"`
	Language    string      `json:"language,omitempty"`
	Fenced      bool        `json:"fenced,omitempty"`
	Marker      string      `json:"marker,omitempty"`
	Checked     bool        `json:"checked,omitempty"`
	Align       string      `json:"align,omitempty"`
	Destination string      `json:"destination,omitempty"`
	Alt         string      `json:"alt,omitempty"`
	Title       string      `json:"title,omitempty"`
	Children    []*jsonNode `json:"children,omitempty"`
}

func toJSONNode(n *Node) *jsonNode {
	j := &jsonNode{
		Kind:        n.Kind.String(),
		Text:        n.Text,
		Level:       n.Level,
		Language:    n.Language,
		Fenced:      n.Fenced,
		Marker:      n.Marker,
		Checked:     n.Checked,
		Destination: n.Destination,
		Alt:         n.Alt,
		Title:       n.Title,
	}
	if n.Kind == KindTableCell && n.Align != AlignNone {
		j.Align = n.Align.String()
	}
	for _, m := range n.Marks {
		j.Marks = append(j.Marks, m.String())
	}
	for _, c := range n.Children {
		j.Children = append(j.Children, toJSONNode(c))
	}
	return j
}

// MarshalJSON serializes the subtree with string kind and mark names. It is
// meant for tooling and debugging, not as a storage format.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSONNode(n))
}
