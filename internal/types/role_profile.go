package types

// RequiredSkill is one requirement of a role profile.
type RequiredSkill struct {
	Name   string  `json:"name" yaml:"name"`
	Target int     `json:"target" yaml:"target"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// RoleProfile is a named target skill set.
type RoleProfile struct {
	Name     string          `json:"name" yaml:"name"`
	Required []RequiredSkill `json:"required" yaml:"required"`
}

// ScoreRequest asks the server to score a skill list, optionally against a goal role.
type ScoreRequest struct {
	Skills   []Skill `json:"skills" validate:"max=500"`
	GoalRole string  `json:"goalRole,omitempty"`
}

// ScoreResponse carries a readiness score (nil when there is nothing to score) and the roadmap.
type ScoreResponse struct {
	Score   *int          `json:"score"`
	Roadmap []RoadmapStep `json:"roadmap"`
}
