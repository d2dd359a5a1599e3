package docx

import "encoding/xml"

// Run formatting is copied attribute-by-attribute over a fixed set: font
// family, size, bold/italic/underline flags, and RGB color. Properties the
// source run leaves unset stay unset on the target, so the target inherits
// its style defaults exactly like the source does.
var runFormatElements = []string{"rFonts", "sz", "szCs", "b", "i", "u", "color"}

// CopyRunFormatting copies the fixed formatting set from src to dst.
func CopyRunFormatting(src, dst Run) {
	srcProps := src.Properties()
	if srcProps == nil {
		return
	}
	dstProps := dst.ensureProperties()
	for _, local := range runFormatElements {
		if n := srcProps.Child(local); n != nil {
			replaceChild(dstProps, local, n.Clone())
		}
	}
}

// SetBold forces the bold flag on the run, overriding any copied value.
func (r Run) SetBold() {
	props := r.ensureProperties()
	replaceChild(props, "b", element("b"))
}

// CopyParagraphFormatting copies style, alignment, spacing before/after, and
// left/right indents from src to dst. Attributes outside this set are not
// carried over.
func CopyParagraphFormatting(src, dst Paragraph) {
	srcProps := src.Properties()
	if srcProps == nil {
		return
	}
	dstProps := dst.ensureProperties()

	for _, local := range []string{"pStyle", "jc"} {
		if n := srcProps.Child(local); n != nil {
			replaceChild(dstProps, local, n.Clone())
		}
	}
	if spacing := srcProps.Child("spacing"); spacing != nil {
		if n := copyAttrs(spacing, "before", "after"); n != nil {
			replaceChild(dstProps, "spacing", n)
		}
	}
	if ind := srcProps.Child("ind"); ind != nil {
		if n := copyAttrs(ind, "left", "right", "start", "end"); n != nil {
			replaceChild(dstProps, "ind", n)
		}
	}
}

// copyAttrs builds a fresh element carrying only the named attributes of src.
// It returns nil when none of the attributes are set.
func copyAttrs(src *Node, locals ...string) *Node {
	out := &Node{Name: src.Name}
	for _, a := range src.Attrs {
		for _, local := range locals {
			if a.Name.Local == local {
				out.Attrs = append(out.Attrs, xml.Attr{Name: a.Name, Value: a.Value})
				break
			}
		}
	}
	if len(out.Attrs) == 0 {
		return nil
	}
	return out
}

// replaceChild swaps the first child with the given local name for n, or
// appends n when no such child exists.
func replaceChild(parent *Node, local string, n *Node) {
	if old := parent.Child(local); old != nil {
		i := parent.IndexOf(old)
		parent.Children[i] = n
		return
	}
	parent.Append(n)
}
