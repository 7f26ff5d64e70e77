package assessment

import (
	"time"

	"github.com/jonathan/skill-passport/internal/types"
)

// Reasons attached to fallback assessments.
const (
	ReasonDemoMode      = "demo mode enabled"
	ReasonQuota         = "quota or rate limit"
	ReasonInvalidOutput = "invalid model output"
)

// Fallback returns the fixed assessment used when the live model is unavailable.
// It always has the same shape as a live result.
func Fallback(skillName, goalRole, reason string, now time.Time) *types.Assessment {
	return &types.Assessment{
		Source:     types.SourceFallback,
		Reason:     reason,
		SkillName:  skillName,
		GoalRole:   goalRole,
		AssessedAt: now.UTC(),
		AssessmentFields: types.AssessmentFields{
			Level:     62,
			Summary:   "Fallback assessment used because live model call failed or demo mode is enabled.",
			Strengths: []string{"Basic API structure", "Readable code organization"},
			Gaps:      []string{"Automated tests", "Validation & security basics", "Robust error handling"},
			Roadmap: []types.RoadmapStep{
				{Title: "Add input validation", Detail: "Validate request bodies; handle errors cleanly.", Points: 70},
				{Title: "Add tests", Detail: "Write tests for routes and edge cases.", Points: 90},
				{Title: "Improve error handling", Detail: "Standardize error responses and logging.", Points: 60},
			},
		},
	}
}
