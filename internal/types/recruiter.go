package types

import (
	"time"

	"github.com/google/uuid"
)

// RecruiterJob is a job opening posted by a recruiter.
type RecruiterJob struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	RequiredSkills []string  `json:"requiredSkills"`
	MinScore       int       `json:"minScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateJobRequest is the body of POST /api/jobs.
type CreateJobRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Company        string   `json:"company" validate:"max=200"`
	RequiredSkills []string `json:"requiredSkills" validate:"max=50,dive,max=100"`
	MinScore       int      `json:"minScore" validate:"min=0,max=100"`
}

// Candidate is a student profile considered for a job.
type Candidate struct {
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

// CandidateMatch ranks a candidate against a job.
type CandidateMatch struct {
	Candidate    Candidate `json:"candidate"`
	Score        int       `json:"score"`
	MatchedCount int       `json:"matchedCount"`
	Suitability  int       `json:"suitability"`
}

// MatchRequest is the body of POST /api/match.
type MatchRequest struct {
	Job        RecruiterJob `json:"job"`
	Candidates []Candidate  `json:"candidates" validate:"max=500"`
}
