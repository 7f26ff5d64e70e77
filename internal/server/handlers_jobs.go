package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/skill-passport/internal/db"
	"github.com/jonathan/skill-passport/internal/types"
)

const (
	defaultJobLimit = 50
	maxJobLimit     = 200
)

// JobStore persists recruiter jobs. *db.DB implements it.
type JobStore interface {
	CreateJob(ctx context.Context, title, company string, requiredSkills []string, minScore int) (*db.Job, error)
	ListJobs(ctx context.Context, limit int) ([]db.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) (bool, error)
}

func toRecruiterJob(j db.Job) types.RecruiterJob {
	skills := []string(j.RequiredSkills)
	if skills == nil {
		skills = []string{}
	}
	return types.RecruiterJob{
		ID:             j.ID,
		Title:          j.Title,
		Company:        j.Company,
		RequiredSkills: skills,
		MinScore:       j.MinScore,
		CreatedAt:      j.CreatedAt,
	}
}

// handleListJobs returns the newest jobs first. ?limit= caps the count.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultJobLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxJobLimit)
	}

	jobs, err := s.jobs.ListJobs(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]types.RecruiterJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toRecruiterJob(j))
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if !decodeJSON(w, r, s.log, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Company = strings.TrimSpace(req.Company)
	if err := types.Validator().Struct(req); err != nil {
		s.writeError(w, extractValidationErrors(err))
		return
	}

	var skills []string
	seen := make(map[string]bool)
	for _, name := range req.RequiredSkills {
		name = strings.TrimSpace(name)
		if name == "" || seen[types.SkillKey(name)] {
			continue
		}
		seen[types.SkillKey(name)] = true
		skills = append(skills, name)
	}

	job, err := s.jobs.CreateJob(r.Context(), req.Title, req.Company, skills, req.MinScore)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, toRecruiterJob(*job))
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "Invalid job id"})
		return
	}

	deleted, err := s.jobs.DeleteJob(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
