package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-rebuilder/internal/extraction"
	"github.com/jonathan/resume-rebuilder/internal/population"
	"github.com/jonathan/resume-rebuilder/internal/structuring"
	"github.com/jonathan/resume-rebuilder/internal/types"
)

// fakeRebuilder returns canned stage results and records its inputs.
type fakeRebuilder struct {
	text         string
	extractErr   error
	profile      *types.ResumeProfile
	structureErr error
	document     []byte
	generateErr  error

	gotFilename string
	gotText     string
	gotTemplate []byte
}

func (f *fakeRebuilder) Extract(_ context.Context, _ []byte, filename string) (string, error) {
	f.gotFilename = filename
	if f.extractErr != nil {
		return "", f.extractErr
	}
	return f.text, nil
}

func (f *fakeRebuilder) Structure(_ context.Context, resumeText string) (*types.ResumeProfile, error) {
	f.gotText = resumeText
	if f.structureErr != nil {
		return nil, f.structureErr
	}
	return f.profile, nil
}

func (f *fakeRebuilder) Generate(templateBytes []byte, _ *types.ResumeProfile) ([]byte, error) {
	f.gotTemplate = templateBytes
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.document, nil
}

func newTestServer(rb Rebuilder) *Server {
	return &Server{rebuilder: rb}
}

// multipartBody builds a multipart form with the given file fields.
func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".docx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleRebuildReturnsDocument(t *testing.T) {
	rb := &fakeRebuilder{
		text:     "John Doe resume text",
		profile:  &types.ResumeProfile{Name: "John Doe"},
		document: []byte("PK-document-bytes"),
	}
	s := newTestServer(rb)

	body, contentType := multipartBody(t, map[string][]byte{
		"resume":   []byte("uploaded resume"),
		"template": []byte("uploaded template"),
	})
	req := httptest.NewRequest("POST", "/rebuild", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.handleRebuild(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, docxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, []byte("PK-document-bytes"), rec.Body.Bytes())

	assert.Equal(t, "resume.docx", rb.gotFilename)
	assert.Equal(t, "John Doe resume text", rb.gotText)
	assert.Equal(t, []byte("uploaded template"), rb.gotTemplate)
}

func TestHandleRebuildUsesConfiguredTemplate(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.docx")
	require.NoError(t, os.WriteFile(templatePath, []byte("disk template"), 0o644))

	rb := &fakeRebuilder{
		text:     "text",
		profile:  &types.ResumeProfile{},
		document: []byte("doc"),
	}
	s := newTestServer(rb)
	s.templatePath = templatePath

	body, contentType := multipartBody(t, map[string][]byte{
		"resume": []byte("uploaded resume"),
	})
	req := httptest.NewRequest("POST", "/rebuild", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.handleRebuild(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("disk template"), rb.gotTemplate)
}

func TestHandleRebuildRequiresResumeFile(t *testing.T) {
	s := newTestServer(&fakeRebuilder{})

	body, contentType := multipartBody(t, map[string][]byte{
		"template": []byte("template only"),
	})
	req := httptest.NewRequest("POST", "/rebuild", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.handleRebuild(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume")
}

func TestHandleRebuildRequiresSomeTemplate(t *testing.T) {
	s := newTestServer(&fakeRebuilder{})

	body, contentType := multipartBody(t, map[string][]byte{
		"resume": []byte("resume"),
	})
	req := httptest.NewRequest("POST", "/rebuild", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.handleRebuild(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "template")
}

func TestHandleRebuildMapsExtractionErrors(t *testing.T) {
	rb := &fakeRebuilder{
		extractErr: &extraction.UnsupportedFormatError{Extension: ".exe"},
	}
	s := newTestServer(rb)

	body, contentType := multipartBody(t, map[string][]byte{
		"resume":   []byte("resume"),
		"template": []byte("template"),
	})
	req := httptest.NewRequest("POST", "/rebuild", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.handleRebuild(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "Extraction failed")
}

func TestHandleExtract(t *testing.T) {
	rb := &fakeRebuilder{text: "extracted resume text"}
	s := newTestServer(rb)

	body, contentType := multipartBody(t, map[string][]byte{
		"resume": []byte("file bytes"),
	})
	req := httptest.NewRequest("POST", "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.handleExtract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "resume.docx", resp.Filename)
	assert.Equal(t, "extracted resume text", resp.Text)
	assert.Equal(t, len("extracted resume text"), resp.Characters)
}

func TestHandleStructure(t *testing.T) {
	rb := &fakeRebuilder{
		profile: &types.ResumeProfile{Name: "Ann Lee", Email: "ann@example.com"},
	}
	s := newTestServer(rb)

	reqBody, err := json.Marshal(StructureRequest{Text: "Ann Lee\nann@example.com"})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/structure", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()

	s.handleStructure(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var profile types.ResumeProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Ann Lee", profile.Name)
	assert.Equal(t, "Ann Lee\nann@example.com", rb.gotText)
}

func TestHandleStructureValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty text", body: `{"text": "  "}`},
		{name: "invalid JSON", body: `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeRebuilder{})
			req := httptest.NewRequest("POST", "/structure", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			s.handleStructure(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleStructureMapsUpstreamErrors(t *testing.T) {
	rb := &fakeRebuilder{
		structureErr: &structuring.APICallError{Message: "gemini unavailable"},
	}
	s := newTestServer(rb)

	req := httptest.NewRequest("POST", "/structure", bytes.NewReader([]byte(`{"text": "resume"}`)))
	rec := httptest.NewRecorder()

	s.handleStructure(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeRebuilder{})
	rec := httptest.NewRecorder()

	s.handleHealth(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestRunEndpointsRequireDatabase(t *testing.T) {
	s := newTestServer(&fakeRebuilder{})

	req := httptest.NewRequest("GET", "/runs/abc/artifacts", nil)
	req.SetPathValue("id", "1f0e7a3c-0000-0000-0000-000000000000")
	rec := httptest.NewRecorder()
	s.handleRunArtifacts(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest("GET", "/runs/abc/document", nil)
	req.SetPathValue("id", "1f0e7a3c-0000-0000-0000-000000000000")
	rec = httptest.NewRecorder()
	s.handleRunDocument(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unsupported format", err: &extraction.UnsupportedFormatError{Extension: ".txt"}, want: http.StatusUnsupportedMediaType},
		{name: "extraction failure", err: &extraction.ExtractionError{Message: "no text"}, want: http.StatusUnprocessableEntity},
		{name: "ocr failure", err: &extraction.OCRError{Message: "tesseract"}, want: http.StatusUnprocessableEntity},
		{name: "bad template", err: &population.TemplateError{Message: "not a docx"}, want: http.StatusBadRequest},
		{name: "llm parse failure", err: &structuring.ParseError{Message: "bad json"}, want: http.StatusBadGateway},
		{name: "llm api failure", err: &structuring.APICallError{Message: "quota"}, want: http.StatusBadGateway},
		{name: "unknown", err: assert.AnError, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestRebuiltFilename(t *testing.T) {
	tests := []struct {
		uploaded string
		want     string
	}{
		{uploaded: "resume.pdf", want: "resume_rebuilt.docx"},
		{uploaded: "dir/John Doe CV.docx", want: "John Doe CV_rebuilt.docx"},
		{uploaded: "scan.jpeg", want: "scan_rebuilt.docx"},
		{uploaded: "", want: "resume_rebuilt.docx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rebuiltFilename(tt.uploaded))
	}
}
