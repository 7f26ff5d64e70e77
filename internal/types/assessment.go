package types

import "time"

// Assessment sources.
const (
	SourceLive     = "live"
	SourceFallback = "fallback-demo"
)

// AssessmentFields is the part of an assessment produced by the model.
type AssessmentFields struct {
	Level     int           `json:"level"`
	Summary   string        `json:"summary"`
	Strengths []string      `json:"strengths"`
	Gaps      []string      `json:"gaps"`
	Roadmap   []RoadmapStep `json:"roadmap"`
}

// Assessment is the response of the skill assessment endpoint.
type Assessment struct {
	Source     string    `json:"source"`
	Reason     string    `json:"reason,omitempty"`
	SkillName  string    `json:"skillName"`
	GoalRole   string    `json:"goalRole,omitempty"`
	AssessedAt time.Time `json:"assessedAt"`
	AssessmentFields
}

// SourceFile is a text fragment extracted from an uploaded archive.
type SourceFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}
