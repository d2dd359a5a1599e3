package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>%s</w:body></w:document>`

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

// buildPackage assembles a minimal DOCX package with the given body XML and
// optional extra parts.
func buildPackage(t *testing.T, bodyXML string, extra map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := map[string][]byte{
		"[Content_Types].xml": []byte(contentTypesXML),
		"word/document.xml":   []byte(fmt.Sprintf(documentTemplate, bodyXML)),
	}
	for name, content := range extra {
		parts[name] = content
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func paragraphXML(text string) string {
	return fmt.Sprintf(`<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, text)
}

func TestOpenRejectsInvalidInput(t *testing.T) {
	_, err := Open([]byte("not a zip archive"))
	assert.Error(t, err)
}

func TestOpenRejectsPackageWithoutDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(contentTypesXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Open(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestTextDocumentOrder(t *testing.T) {
	body := paragraphXML("Heading") +
		`<w:tbl><w:tr><w:tc>` + paragraphXML("Cell A") + `</w:tc><w:tc>` + paragraphXML("Cell B") + `</w:tc></w:tr></w:tbl>` +
		paragraphXML("Footer")

	doc, err := Open(buildPackage(t, body, nil))
	require.NoError(t, err)

	assert.Equal(t, "Heading\nCell A\nCell B\nFooter", doc.Text())
}

func TestSaveRoundTrip(t *testing.T) {
	body := paragraphXML("Hello, world") +
		`<w:tbl><w:tr><w:tc>` + paragraphXML("{NAME}") + `</w:tc></w:tr></w:tbl>`

	doc, err := Open(buildPackage(t, body, nil))
	require.NoError(t, err)

	saved, err := doc.Save()
	require.NoError(t, err)

	reopened, err := Open(saved)
	require.NoError(t, err)
	assert.Equal(t, doc.Text(), reopened.Text())

	// Namespace prefixes survive the round trip.
	zr, err := zip.NewReader(bytes.NewReader(saved), int64(len(saved)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		var out bytes.Buffer
		_, err = out.ReadFrom(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Contains(t, out.String(), "<w:body>")
		assert.Contains(t, out.String(), "xmlns:w=")
	}
}

func TestSavePreservesEscapedText(t *testing.T) {
	doc, err := Open(buildPackage(t, paragraphXML("Fish &amp; Chips &lt;Ltd&gt;"), nil))
	require.NoError(t, err)
	assert.Equal(t, "Fish & Chips <Ltd>", doc.Text())

	saved, err := doc.Save()
	require.NoError(t, err)
	reopened, err := Open(saved)
	require.NoError(t, err)
	assert.Equal(t, "Fish & Chips <Ltd>", reopened.Text())
}

func TestImageParts(t *testing.T) {
	relsXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

	imageBytes := []byte{0x89, 'P', 'N', 'G'}
	doc, err := Open(buildPackage(t, paragraphXML("x"), map[string][]byte{
		"word/_rels/document.xml.rels": []byte(relsXML),
		"word/media/image1.png":        imageBytes,
		"word/styles.xml":              []byte("<styles/>"),
	}))
	require.NoError(t, err)

	images, err := doc.ImageParts()
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, imageBytes, images[0])
}

func TestImagePartsWithoutRels(t *testing.T) {
	doc, err := Open(buildPackage(t, paragraphXML("x"), nil))
	require.NoError(t, err)

	images, err := doc.ImageParts()
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestSaveKeepsUnknownPartsVerbatim(t *testing.T) {
	styles := []byte(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`)
	doc, err := Open(buildPackage(t, paragraphXML("x"), map[string][]byte{
		"word/styles.xml": styles,
	}))
	require.NoError(t, err)

	saved, err := doc.Save()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(saved), int64(len(saved)))
	require.NoError(t, err)
	found := false
	for _, f := range zr.File {
		if f.Name != "word/styles.xml" {
			continue
		}
		found = true
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, styles, content)
	}
	assert.True(t, found)
}
