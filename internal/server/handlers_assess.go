package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/skill-passport/internal/assessment"
	"github.com/jonathan/skill-passport/internal/types"
)

const (
	// formOverheadBytes covers the text fields and multipart framing around the archive.
	formOverheadBytes = 1 << 20
	formMemoryBytes   = 4 << 20
)

// Assessor produces skill assessments. *assessment.Service implements it.
type Assessor interface {
	Assess(ctx context.Context, req assessment.Request) (*types.Assessment, error)
	HasModel() bool
	DemoMode() bool
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	OK       bool `json:"ok"`
	HasKey   bool `json:"hasKey"`
	DemoMode bool `json:"demoMode"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, healthResponse{
		OK:       true,
		HasKey:   s.assessor.HasModel(),
		DemoMode: s.assessor.DemoMode(),
	})
}

// handleAssessSkill accepts a multipart form with skillName, goalRole, notes and a projectZip file.
func (s *Server) handleAssessSkill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+formOverheadBytes)
	if err := r.ParseMultipartForm(formMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "projectZip exceeds the upload limit")
			return
		}
		s.writeError(w, &ErrValidation{Field: "body", Message: "Expected a multipart form"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req := assessment.Request{
		SkillName: strings.TrimSpace(r.FormValue("skillName")),
		GoalRole:  strings.TrimSpace(r.FormValue("goalRole")),
		Notes:     r.FormValue("notes"),
	}

	file, header, err := r.FormFile("projectZip")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		if header.Size > s.maxUploadBytes {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "projectZip exceeds the upload limit")
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			s.writeError(w, err)
			return
		}
		req.Archive = data
	case errors.Is(err, http.ErrMissingFile):
		// Assess reports the missing archive as a validation error.
	default:
		s.writeError(w, err)
		return
	}

	result, err := s.assessor.Assess(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
