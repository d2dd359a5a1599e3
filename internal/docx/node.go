// Package docx provides a minimal WordprocessingML document model for reading,
// mutating, and writing DOCX files.
//
// A DOCX file is a ZIP archive whose main part, word/document.xml, holds the
// document body as namespaced XML. This package parses that part into a
// generic element tree that round-trips losslessly: elements, attributes, and
// character data this package does not understand are preserved byte-for-byte
// in meaning on save. Typed views (Table, Row, Cell, Paragraph, Run) sit on
// top of the tree and provide the operations the template engine needs:
// text substitution inside runs, row cloning, and paragraph insertion.
package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Namespace URIs used when constructing new elements.
const (
	nsWord = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsXML  = "http://www.w3.org/XML/1998/namespace"
)

// Node is a generic XML node. An element node has a non-empty Name.Local;
// a character-data node has an empty Name and its content in Text.
// Attribute namespaces follow encoding/xml conventions: Name.Space holds the
// resolved namespace URI, and xmlns declarations appear as attributes with
// Space "xmlns".
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Text     string
}

// IsElement reports whether the node is an element (as opposed to text).
func (n *Node) IsElement() bool { return n.Name.Local != "" }

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	c := &Node{
		Name: n.Name,
		Text: n.Text,
	}
	if len(n.Attrs) > 0 {
		c.Attrs = make([]xml.Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// Child returns the first element child with the given local name, or nil.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.IsElement() && c.Name.Local == local {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all element children with the given local name.
func (n *Node) ChildrenNamed(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns all element descendants with the given local name in
// document order.
func (n *Node) Descendants(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsElement() {
			continue
		}
		if c.Name.Local == local {
			out = append(out, c)
		}
		out = append(out, c.Descendants(local)...)
	}
	return out
}

// Append adds a child node at the end.
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// IndexOf returns the position of the given child, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// InsertAt inserts a child node at the given position.
func (n *Node) InsertAt(i int, child *Node) {
	if i < 0 || i >= len(n.Children) {
		n.Children = append(n.Children, child)
		return
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
}

// Remove removes the given child node. It reports whether the child was found.
func (n *Node) Remove(child *Node) bool {
	i := n.IndexOf(child)
	if i < 0 {
		return false
	}
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	return true
}

// Attr returns the value of the attribute with the given local name and
// whether it was present. Namespace is ignored; WordprocessingML attribute
// local names are unambiguous within one element.
func (n *Node) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets (or replaces) an attribute.
func (n *Node) SetAttr(space, local, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == local && a.Name.Space == space {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
}

// decodeTree parses an XML document into a node tree rooted at the document
// element. It also collects namespace declarations so the tree can be written
// back with the original prefixes.
func decodeTree(r io.Reader) (*Node, map[string]string, error) {
	dec := xml.NewDecoder(r)
	prefixes := map[string]string{nsXML: "xml"}

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name}
			if len(t.Attr) > 0 {
				n.Attrs = make([]xml.Attr, len(t.Attr))
				copy(n.Attrs, t.Attr)
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					prefixes[a.Value] = a.Name.Local
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, nil, fmt.Errorf("multiple root elements")
				}
				root = n
			} else {
				stack[len(stack)-1].Append(n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, nil, fmt.Errorf("unbalanced end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			top.Append(&Node{Text: string(t)})
		}
		// Comments, directives, and processing instructions are dropped;
		// Word regenerates none of them inside document.xml.
	}
	if root == nil {
		return nil, nil, fmt.Errorf("empty XML document")
	}
	return root, prefixes, nil
}

// encodeTree writes the node tree as XML using the recorded namespace
// prefixes.
func encodeTree(w io.Writer, n *Node, prefixes map[string]string) error {
	buf := &bytes.Buffer{}
	writeNode(buf, n, prefixes)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeNode(buf *bytes.Buffer, n *Node, prefixes map[string]string) {
	if !n.IsElement() {
		_ = xml.EscapeText(buf, []byte(n.Text))
		return
	}
	name := qualifiedName(n.Name, prefixes)
	buf.WriteByte('<')
	buf.WriteString(name)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(qualifiedAttrName(a.Name, prefixes))
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if len(n.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range n.Children {
		writeNode(buf, c, prefixes)
	}
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteByte('>')
}

func qualifiedName(name xml.Name, prefixes map[string]string) string {
	if name.Space == "" {
		return name.Local
	}
	if p, ok := prefixes[name.Space]; ok && p != "" {
		return p + ":" + name.Local
	}
	return name.Local
}

func qualifiedAttrName(name xml.Name, prefixes map[string]string) string {
	switch {
	case name.Space == "xmlns":
		return "xmlns:" + name.Local
	case name.Space == "":
		return name.Local
	default:
		return qualifiedName(name, prefixes)
	}
}

// sortedKeys is a test helper used by error messages; kept here so both the
// package and its tests can report part names deterministically.
func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// collapseText joins the text content of all character-data descendants.
func collapseText(n *Node) string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(node *Node) {
		for _, c := range node.Children {
			if c.IsElement() {
				walk(c)
			} else {
				sb.WriteString(c.Text)
			}
		}
	}
	walk(n)
	return sb.String()
}
