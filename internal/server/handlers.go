package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-rebuilder/internal/db"
)

const (
	// maxUploadSize bounds the multipart form held in memory.
	maxUploadSize = 32 << 20

	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExtractResponse represents the response for /extract
type ExtractResponse struct {
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	Characters int    `json:"characters"`
}

// StructureRequest represents the request body for /structure
type StructureRequest struct {
	Text string `json:"text"`
}

// ArtifactsResponse represents the response for /runs/{id}/artifacts
type ArtifactsResponse struct {
	RunID     string            `json:"run_id"`
	Status    string            `json:"status"`
	Artifacts []db.ArtifactMeta `json:"artifacts"`
}

// handleRebuild runs the full pipeline on an uploaded resume and returns
// the populated DOCX document.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	resumeData, filename, ok := s.readUpload(w, r, "resume")
	if !ok {
		return
	}

	templateData, ok := s.readTemplate(w, r)
	if !ok {
		return
	}

	ctx := r.Context()

	var runID uuid.UUID
	if s.db != nil {
		var err error
		runID, err = s.db.CreateRun(ctx, filename)
		if err != nil {
			log.Printf("Warning: failed to create run record: %v", err)
		}
	}

	text, err := s.rebuilder.Extract(ctx, resumeData, filename)
	if err != nil {
		s.failRun(ctx, runID)
		s.errorResponse(w, HTTPStatus(err), "Extraction failed: "+err.Error())
		return
	}
	s.saveTextArtifact(ctx, runID, db.StepRawText, db.CategoryExtraction, text)

	profile, err := s.rebuilder.Structure(ctx, text)
	if err != nil {
		s.failRun(ctx, runID)
		s.errorResponse(w, HTTPStatus(err), "Structuring failed: "+err.Error())
		return
	}
	s.saveArtifact(ctx, runID, db.StepResumeProfile, db.CategoryStructuring, profile)

	document, err := s.rebuilder.Generate(templateData, profile)
	if err != nil {
		s.failRun(ctx, runID)
		s.errorResponse(w, HTTPStatus(err), "Document generation failed: "+err.Error())
		return
	}
	s.saveBinaryArtifact(ctx, runID, db.StepDocument, db.CategoryPopulation, document)

	if s.db != nil && runID != uuid.Nil {
		if err := s.db.CompleteRun(ctx, runID, "completed"); err != nil {
			log.Printf("Warning: failed to mark run completed: %v", err)
		}
		w.Header().Set("X-Run-ID", runID.String())
	}

	outName := rebuiltFilename(filename)
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		log.Printf("Error writing document response: %v", err)
	}
}

// handleExtract runs only the text extraction stage on an uploaded file.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r, "resume")
	if !ok {
		return
	}

	text, err := s.rebuilder.Extract(r.Context(), data, filename)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "Extraction failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		Filename:   filename,
		Text:       text,
		Characters: len(text),
	})
}

// handleStructure runs only the LLM structuring stage on raw resume text.
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	var req StructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.errorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	profile, err := s.rebuilder.Structure(r.Context(), req.Text)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "Structuring failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleRunArtifacts lists the artifacts recorded for a run
func (s *Server) handleRunArtifacts(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.requireRunID(w, r)
	if !ok {
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	artifacts, err := s.db.ListArtifacts(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ArtifactsResponse{
		RunID:     run.ID.String(),
		Status:    run.Status,
		Artifacts: artifacts,
	})
}

// handleRunDocument returns the generated DOCX for a completed run
func (s *Server) handleRunDocument(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.requireRunID(w, r)
	if !ok {
		return
	}

	document, err := s.db.GetDocumentByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if len(document) == 0 {
		s.errorResponse(w, http.StatusNotFound, "Document not found for run")
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", runID.String()+".docx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		log.Printf("Error writing document response: %v", err)
	}
}

// readUpload reads a multipart file field, writing the error response
// itself when the upload is missing or unreadable.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("File field %q is required", field))
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return nil, "", false
	}

	return data, header.Filename, true
}

// readTemplate returns the template DOCX: the optional "template" upload
// if present, otherwise the template configured at startup.
func (s *Server) readTemplate(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	file, _, err := r.FormFile("template")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded template: "+readErr.Error())
			return nil, false
		}
		return data, true
	}

	if s.templatePath == "" {
		s.errorResponse(w, http.StatusBadRequest, "No template uploaded and no default template configured")
		return nil, false
	}

	data, err := os.ReadFile(s.templatePath)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to read default template: "+err.Error())
		return nil, false
	}
	return data, true
}

// requireRunID parses the {id} path value and checks that a database is
// configured, writing the error response itself on failure.
func (s *Server) requireRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "No database configured")
		return uuid.Nil, false
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return uuid.Nil, false
	}
	return runID, true
}

func (s *Server) failRun(ctx context.Context, runID uuid.UUID) {
	if s.db == nil || runID == uuid.Nil {
		return
	}
	if err := s.db.CompleteRun(ctx, runID, "failed"); err != nil {
		log.Printf("Warning: failed to mark run failed: %v", err)
	}
}

func (s *Server) saveTextArtifact(ctx context.Context, runID uuid.UUID, step, category, text string) {
	if s.db == nil || runID == uuid.Nil {
		return
	}
	if err := s.db.SaveTextArtifact(ctx, runID, step, category, text); err != nil {
		log.Printf("Warning: failed to save %s artifact: %v", step, err)
	}
}

func (s *Server) saveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) {
	if s.db == nil || runID == uuid.Nil {
		return
	}
	if err := s.db.SaveArtifact(ctx, runID, step, category, content); err != nil {
		log.Printf("Warning: failed to save %s artifact: %v", step, err)
	}
}

func (s *Server) saveBinaryArtifact(ctx context.Context, runID uuid.UUID, step, category string, data []byte) {
	if s.db == nil || runID == uuid.Nil {
		return
	}
	if err := s.db.SaveBinaryArtifact(ctx, runID, step, category, data); err != nil {
		log.Printf("Warning: failed to save %s artifact: %v", step, err)
	}
}

// rebuiltFilename derives the download filename from the uploaded one.
func rebuiltFilename(uploaded string) string {
	base := filepath.Base(uploaded)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "resume"
	}
	return stem + "_rebuilt.docx"
}
