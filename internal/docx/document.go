package docx

import (
	"encoding/xml"
	"strings"
)

// Table is a view over a w:tbl element.
type Table struct {
	node *Node
}

// Rows returns the table's rows in order.
func (t Table) Rows() []Row {
	var out []Row
	for _, n := range t.node.ChildrenNamed("tr") {
		out = append(out, Row{node: n})
	}
	return out
}

// AppendRow appends a row element to the end of the table.
func (t Table) AppendRow(r Row) {
	t.node.Append(r.node)
}

// RemoveRow removes a row from the table. It reports whether the row was
// present.
func (t Table) RemoveRow(r Row) bool {
	return t.node.Remove(r.node)
}

// Row is a view over a w:tr element.
type Row struct {
	node *Node
}

// Clone returns a deep copy of the row, suitable for appending to a table.
func (r Row) Clone() Row {
	return Row{node: r.node.Clone()}
}

// Cells returns the row's cells in order.
func (r Row) Cells() []Cell {
	var out []Cell
	for _, n := range r.node.ChildrenNamed("tc") {
		out = append(out, Cell{node: n})
	}
	return out
}

// Text returns the concatenated text of every cell in the row.
func (r Row) Text() string {
	var sb strings.Builder
	for _, c := range r.Cells() {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// Cell is a view over a w:tc element.
type Cell struct {
	node *Node
}

// Paragraphs returns the cell's paragraphs in order, including paragraphs
// nested in structured content.
func (c Cell) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, n := range c.node.Descendants("p") {
		out = append(out, Paragraph{node: n})
	}
	return out
}

// Text returns the newline-joined text of the cell's paragraphs.
func (c Cell) Text() string {
	var lines []string
	for _, p := range c.Paragraphs() {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// IndexOf returns the position of a paragraph among the cell's direct
// children, or -1 when the paragraph is not a direct child.
func (c Cell) IndexOf(p Paragraph) int {
	return c.node.IndexOf(p.node)
}

// InsertParagraphAt inserts a paragraph at the given child position.
func (c Cell) InsertParagraphAt(i int, p Paragraph) {
	c.node.InsertAt(i, p.node)
}

// AppendParagraph appends a paragraph to the end of the cell.
func (c Cell) AppendParagraph(p Paragraph) {
	c.node.Append(p.node)
}

// RemoveParagraph removes a paragraph from the cell. It reports whether the
// paragraph was a direct child.
func (c Cell) RemoveParagraph(p Paragraph) bool {
	return c.node.Remove(p.node)
}

// Paragraph is a view over a w:p element.
type Paragraph struct {
	node *Node
}

// NewParagraph creates an empty paragraph element.
func NewParagraph() Paragraph {
	return Paragraph{node: element("p")}
}

// Runs returns the paragraph's runs in document order, including runs nested
// inside hyperlinks and similar containers.
func (p Paragraph) Runs() []Run {
	var out []Run
	for _, n := range p.node.Descendants("r") {
		out = append(out, Run{node: n})
	}
	return out
}

// Text returns the concatenated text of the paragraph's runs.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, t := range p.node.Descendants("t") {
		sb.WriteString(collapseText(t))
	}
	return sb.String()
}

// Properties returns the w:pPr element, or nil when the paragraph has none.
func (p Paragraph) Properties() *Node {
	return p.node.Child("pPr")
}

// ensureProperties returns the paragraph's w:pPr element, creating it as the
// first child when absent (WordprocessingML requires pPr to come first).
func (p Paragraph) ensureProperties() *Node {
	if pr := p.node.Child("pPr"); pr != nil {
		return pr
	}
	pr := element("pPr")
	p.node.InsertAt(0, pr)
	return pr
}

// AppendRun appends a run to the paragraph.
func (p Paragraph) AppendRun(r Run) {
	p.node.Append(r.node)
}

// Run is a view over a w:r element.
type Run struct {
	node *Node
}

// NewRun creates a run holding the given text.
func NewRun(text string) Run {
	r := Run{node: element("r")}
	r.SetText(text)
	return r
}

// Text returns the concatenated text of the run's w:t children.
func (r Run) Text() string {
	var sb strings.Builder
	for _, t := range r.node.ChildrenNamed("t") {
		sb.WriteString(collapseText(t))
	}
	return sb.String()
}

// SetText replaces the run's content with a single w:t element holding the
// given text. Run properties are preserved; tabs, breaks, and any previous
// text children are dropped, matching in-place placeholder substitution.
func (r Run) SetText(text string) {
	props := r.node.Child("rPr")
	r.node.Children = nil
	if props != nil {
		r.node.Append(props)
	}
	t := element("t")
	if text != strings.TrimSpace(text) {
		t.SetAttr(nsXML, "space", "preserve")
	}
	t.Append(&Node{Text: text})
	r.node.Append(t)
}

// ReplaceText substitutes every occurrence of old in the run's text with new.
// It reports whether a substitution happened. Runs without the token are left
// untouched, including their non-text content.
func (r Run) ReplaceText(old, new string) bool {
	current := r.Text()
	if !strings.Contains(current, old) {
		return false
	}
	r.SetText(strings.ReplaceAll(current, old, new))
	return true
}

// Properties returns the w:rPr element, or nil when the run has none.
func (r Run) Properties() *Node {
	return r.node.Child("rPr")
}

// ensureProperties returns the run's w:rPr element, creating it as the first
// child when absent.
func (r Run) ensureProperties() *Node {
	if pr := r.node.Child("rPr"); pr != nil {
		return pr
	}
	pr := element("rPr")
	r.node.InsertAt(0, pr)
	return pr
}

// element creates an empty WordprocessingML element with the given local name.
func element(local string) *Node {
	return &Node{Name: xml.Name{Space: nsWord, Local: local}}
}
