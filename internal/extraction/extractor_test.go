package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine records the images it was asked to recognize and returns canned
// text per call.
type fakeEngine struct {
	texts  []string
	err    error
	images [][]byte
}

func (f *fakeEngine) Recognize(_ context.Context, image []byte) (string, error) {
	f.images = append(f.images, image)
	if f.err != nil {
		return "", f.err
	}
	if len(f.texts) == 0 {
		return "", nil
	}
	text := f.texts[0]
	f.texts = f.texts[1:]
	return text, nil
}

const documentTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`

const relsWithImage = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

func buildDocx(t *testing.T, bodyXML string, extra map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(fmt.Sprintf(documentTemplate, bodyXML)))
	require.NoError(t, err)
	for name, data := range extra {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func paragraphXML(text string) string {
	return fmt.Sprintf(`<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, text)
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	e := New(Options{OCR: &fakeEngine{}})
	_, err := e.Read(context.Background(), []byte("data"), "resume.txt")
	require.Error(t, err)
	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, ".txt", formatErr.Extension)
}

func TestReadDispatchIsCaseInsensitive(t *testing.T) {
	long := strings.Repeat("resume text ", 20)
	data := buildDocx(t, paragraphXML(long), nil)
	e := New(Options{OCR: &fakeEngine{}})
	text, err := e.Read(context.Background(), data, "Resume.DOCX")
	require.NoError(t, err)
	assert.Contains(t, text, "resume text")
}

func TestDocxStructuralTextTrusted(t *testing.T) {
	long := strings.Repeat("experience ", 20)
	data := buildDocx(t, paragraphXML(long), nil)
	engine := &fakeEngine{}
	e := New(Options{OCR: engine})

	text, err := e.Read(context.Background(), data, "resume.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "experience")
	assert.Empty(t, engine.images, "trusted structural text must not trigger OCR")
}

func TestDocxShortTextFallsBackToImageOCR(t *testing.T) {
	data := buildDocx(t, paragraphXML("scan"), map[string][]byte{
		"word/_rels/document.xml.rels": []byte(relsWithImage),
		"word/media/image1.png":        []byte("png-bytes"),
	})
	engine := &fakeEngine{texts: []string{"recognized resume text"}}
	e := New(Options{OCR: engine})

	text, err := e.Read(context.Background(), data, "resume.docx")
	require.NoError(t, err)
	assert.Equal(t, "recognized resume text", text)
	require.Len(t, engine.images, 1)
	assert.Equal(t, []byte("png-bytes"), engine.images[0])
}

func TestDocxShortTextWithoutImagesReturnsEmpty(t *testing.T) {
	data := buildDocx(t, paragraphXML("short"), nil)
	engine := &fakeEngine{}
	e := New(Options{OCR: engine})

	text, err := e.Read(context.Background(), data, "resume.docx")
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Empty(t, engine.images)
}

func TestDocxInvalidPackage(t *testing.T) {
	e := New(Options{OCR: &fakeEngine{}})
	_, err := e.Read(context.Background(), []byte("not a zip"), "resume.docx")
	require.Error(t, err)
	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestPDFTextLayerTrusted(t *testing.T) {
	engine := &fakeEngine{}
	e := New(Options{OCR: engine})
	e.pdfText = func([]byte) (string, error) {
		return strings.Repeat("pdf body ", 20), nil
	}
	e.pdfRaster = func([]byte) ([][]byte, error) {
		t.Fatal("rasterization must not run when the text layer is trusted")
		return nil, nil
	}

	text, err := e.Read(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "pdf body")
	assert.Empty(t, engine.images)
}

func TestPDFShortTextLayerFallsBackToOCR(t *testing.T) {
	engine := &fakeEngine{texts: []string{"page one", "page two"}}
	e := New(Options{OCR: engine})
	e.pdfText = func([]byte) (string, error) { return "stub", nil }
	e.pdfRaster = func([]byte) ([][]byte, error) {
		return [][]byte{[]byte("p1"), []byte("p2")}, nil
	}

	text, err := e.Read(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "page one\npage two", text)
	require.Len(t, engine.images, 2)
}

func TestPDFTextLayerErrorFallsBackToOCR(t *testing.T) {
	engine := &fakeEngine{texts: []string{"recovered"}}
	e := New(Options{OCR: engine})
	e.pdfText = func([]byte) (string, error) { return "", errors.New("corrupt xref") }
	e.pdfRaster = func([]byte) ([][]byte, error) {
		return [][]byte{[]byte("p1")}, nil
	}

	text, err := e.Read(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
}

func TestPDFBothStagesFailing(t *testing.T) {
	e := New(Options{OCR: &fakeEngine{}})
	e.pdfText = func([]byte) (string, error) { return "", errors.New("corrupt xref") }
	e.pdfRaster = func([]byte) ([][]byte, error) { return nil, errors.New("render failed") }

	_, err := e.Read(context.Background(), []byte("%PDF"), "resume.pdf")
	require.Error(t, err)
	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestImageGoesStraightToOCR(t *testing.T) {
	engine := &fakeEngine{texts: []string{"image text"}}
	e := New(Options{OCR: engine})

	for _, name := range []string{"scan.png", "scan.jpg", "scan.jpeg"} {
		engine.texts = []string{"image text"}
		text, err := e.Read(context.Background(), []byte("img"), name)
		require.NoError(t, err)
		assert.Equal(t, "image text", text)
	}
}

func TestOCRFailurePropagates(t *testing.T) {
	engine := &fakeEngine{err: &OCRError{Message: "tesseract unavailable"}}
	e := New(Options{OCR: engine})

	_, err := e.Read(context.Background(), []byte("img"), "scan.png")
	require.Error(t, err)
	var ocrErr *OCRError
	assert.ErrorAs(t, err, &ocrErr)
}

func TestDefaultThreshold(t *testing.T) {
	e := New(Options{OCR: &fakeEngine{}})
	assert.Equal(t, DefaultMinTextLength, e.minTextLength)
	assert.False(t, e.trusted(strings.Repeat("a", DefaultMinTextLength)))
	assert.True(t, e.trusted(strings.Repeat("a", DefaultMinTextLength+1)))
}
