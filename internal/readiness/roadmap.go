package readiness

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/skill-passport/internal/types"
)

const (
	// ImprovementThreshold is the level below which an unprofiled skill gets a step.
	ImprovementThreshold = 60
	// ImprovementPoints is the value of an unprofiled improvement step.
	ImprovementPoints = 50

	gapPointsFactor = 1.6
	minStepPoints   = 20
	maxStepPoints   = 120
)

// GenerateRoadmap builds remediation steps.
//
// With a profile there is one step per required skill below its target, ordered by
// gap times weight, largest first. Without a profile there is one step per skill
// below ImprovementThreshold, in input order.
func GenerateRoadmap(skills []types.Skill, profile *types.RoleProfile) []types.RoadmapStep {
	if profile == nil {
		return thresholdRoadmap(skills)
	}

	levels := verifiedLevels(skills)

	type rankedStep struct {
		step     types.RoadmapStep
		priority float64
	}
	var ranked []rankedStep
	for _, req := range profile.Required {
		current := levels[types.SkillKey(req.Name)]
		gap := req.Target - current
		if gap <= 0 {
			continue
		}
		ranked = append(ranked, rankedStep{
			step: types.RoadmapStep{
				Title:  "Level up " + req.Name,
				Detail: fmt.Sprintf("Raise %s from %d to the target of %d.", req.Name, current, req.Target),
				Points: gapPoints(gap),
				From:   req.Name,
			},
			priority: float64(gap) * req.Weight,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].priority > ranked[j].priority
	})

	steps := make([]types.RoadmapStep, 0, len(ranked))
	for _, r := range ranked {
		steps = append(steps, r.step)
	}
	return steps
}

func thresholdRoadmap(skills []types.Skill) []types.RoadmapStep {
	steps := make([]types.RoadmapStep, 0)
	for _, s := range skills {
		if s.NormalizedLevel() >= ImprovementThreshold {
			continue
		}
		steps = append(steps, types.RoadmapStep{
			Title:  "Improve " + s.Name,
			Detail: fmt.Sprintf("%s is at %d. Practice with a focused project and verify it again.", s.Name, s.NormalizedLevel()),
			Points: ImprovementPoints,
			From:   s.Name,
		})
	}
	return steps
}

func gapPoints(gap int) int {
	p := int(math.Round(float64(gap) * gapPointsFactor))
	if p < minStepPoints {
		return minStepPoints
	}
	if p > maxStepPoints {
		return maxStepPoints
	}
	return p
}

// AggregateRoadmap collects the assessment roadmaps of all verified skills.
// Each step is tagged with its skill; steps are de-duplicated by title (first wins)
// and steps without a title are dropped.
func AggregateRoadmap(skills []types.Skill) []types.RoadmapStep {
	seen := make(map[string]bool)
	steps := make([]types.RoadmapStep, 0)
	for _, s := range skills {
		if !s.Verified {
			continue
		}
		for _, step := range s.Roadmap {
			title := strings.TrimSpace(step.Title)
			if title == "" || seen[title] {
				continue
			}
			seen[title] = true
			step.From = s.Name
			steps = append(steps, step)
		}
	}
	return steps
}
