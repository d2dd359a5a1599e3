package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const documentPart = "word/document.xml"
const documentRelsPart = "word/_rels/document.xml.rels"

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Document is an open DOCX package. The main document part is parsed into a
// mutable tree; every other part is carried through untouched on save.
//
// A Document is not safe for concurrent mutation. Callers that populate a
// template must open a fresh Document from the template bytes per call.
type Document struct {
	parts    map[string][]byte
	order    []string
	root     *Node
	prefixes map[string]string
}

// Open reads a DOCX package from memory.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX package: %w", err)
	}

	d := &Document{parts: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		d.parts[f.Name] = content
		d.order = append(d.order, f.Name)
	}

	main, ok := d.parts[documentPart]
	if !ok {
		return nil, fmt.Errorf("not a DOCX package: %s missing (parts: %s)",
			documentPart, strings.Join(sortedKeys(d.parts), ", "))
	}

	root, prefixes, err := decodeTree(bytes.NewReader(main))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", documentPart, err)
	}
	d.root = root
	d.prefixes = prefixes
	return d, nil
}

// Body returns the w:body element of the main document part.
func (d *Document) Body() *Node {
	return d.root.Child("body")
}

// Tables returns the top-level tables of the document body in order.
func (d *Document) Tables() []Table {
	var out []Table
	body := d.Body()
	if body == nil {
		return nil
	}
	for _, n := range body.ChildrenNamed("tbl") {
		out = append(out, Table{node: n})
	}
	return out
}

// Paragraphs returns the top-level paragraphs of the document body in order.
func (d *Document) Paragraphs() []Paragraph {
	var out []Paragraph
	body := d.Body()
	if body == nil {
		return nil
	}
	for _, n := range body.ChildrenNamed("p") {
		out = append(out, Paragraph{node: n})
	}
	return out
}

// Text extracts the plain text of the document in document order: body
// paragraphs and, for each table, every cell's text, newline-joined.
func (d *Document) Text() string {
	body := d.Body()
	if body == nil {
		return ""
	}
	var lines []string
	for _, n := range body.Children {
		if !n.IsElement() {
			continue
		}
		switch n.Name.Local {
		case "p":
			lines = append(lines, Paragraph{node: n}.Text())
		case "tbl":
			t := Table{node: n}
			for _, row := range t.Rows() {
				for _, cell := range row.Cells() {
					lines = append(lines, cell.Text())
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

// relationship mirrors an entry of word/_rels/document.xml.rels.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	Relationships []relationship `xml:"Relationship"`
}

// ImageParts returns the bytes of every image part referenced by the main
// document's relationships, in relationship order. Documents without images
// return an empty slice.
func (d *Document) ImageParts() ([][]byte, error) {
	relsData, ok := d.parts[documentRelsPart]
	if !ok {
		return nil, nil
	}
	var rels relationships
	if err := xml.Unmarshal(relsData, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", documentRelsPart, err)
	}

	var out [][]byte
	for _, rel := range rels.Relationships {
		if !strings.Contains(rel.Type, "image") {
			continue
		}
		// Targets are relative to the word/ directory unless rooted.
		target := rel.Target
		if !strings.HasPrefix(target, "/") {
			target = path.Join("word", target)
		} else {
			target = strings.TrimPrefix(target, "/")
		}
		if content, ok := d.parts[target]; ok {
			out = append(out, content)
		}
	}
	return out, nil
}

// Save serializes the package back to DOCX bytes, writing the mutated main
// document part and copying every other part verbatim in original order.
func (d *Document) Save() ([]byte, error) {
	var main bytes.Buffer
	main.WriteString(xmlHeader)
	if err := encodeTree(&main, d.root, d.prefixes); err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", documentPart, err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, name := range d.order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", name, err)
		}
		content := d.parts[name]
		if name == documentPart {
			content = main.Bytes()
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}
	return out.Bytes(), nil
}
