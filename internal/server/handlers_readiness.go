package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/skill-passport/internal/readiness"
	"github.com/jonathan/skill-passport/internal/types"
)

func (s *Server) handleListRoles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, readiness.Roles())
}

// handleScore scores a skill list, against a role profile when goalRole is set.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if !decodeJSON(w, r, s.log, &req) {
		return
	}
	if err := types.Validator().Struct(req); err != nil {
		s.writeError(w, extractValidationErrors(err))
		return
	}

	var profile *types.RoleProfile
	if role := strings.TrimSpace(req.GoalRole); role != "" {
		p, ok := readiness.Role(role)
		if !ok {
			s.writeError(w, &ErrUnknownRole{Role: role})
			return
		}
		profile = p
	}

	resp := types.ScoreResponse{Roadmap: readiness.GenerateRoadmap(req.Skills, profile)}
	if resp.Roadmap == nil {
		resp.Roadmap = []types.RoadmapStep{}
	}
	if score, ok := readiness.CalculateScore(req.Skills, profile); ok {
		resp.Score = &score
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleMatch ranks candidates for a job.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if !decodeJSON(w, r, s.log, &req) {
		return
	}
	if err := types.Validator().Struct(req); err != nil {
		s.writeError(w, extractValidationErrors(err))
		return
	}
	s.jsonResponse(w, http.StatusOK, readiness.MatchCandidates(req.Job, req.Candidates))
}
