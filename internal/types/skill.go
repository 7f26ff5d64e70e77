package types

import "strings"

// Skill is one entry of a user's skill list.
type Skill struct {
	Name     string        `json:"name"`
	Verified bool          `json:"verified"`
	Level    int           `json:"level"`
	Summary  string        `json:"summary"`
	Roadmap  []RoadmapStep `json:"roadmap"`
}

// RoadmapStep is a single remediation action. From names the skill the step was derived from.
type RoadmapStep struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Points int    `json:"points"`
	From   string `json:"_from,omitempty"`
}

// Key returns the case-insensitive identity of the skill.
func (s Skill) Key() string {
	return SkillKey(s.Name)
}

// NormalizedLevel clamps the level into 0..100.
func (s Skill) NormalizedLevel() int {
	return ClampLevel(s.Level)
}

// SkillKey normalizes a skill name for comparisons.
func SkillKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ClampLevel clamps a level into 0..100.
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
