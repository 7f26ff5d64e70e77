// Package readiness derives a 0-1000 readiness score and a remediation roadmap
// from a skill list, optionally weighted against a role profile.
//
// Every function here is pure. Persistence belongs to the caller.
package readiness

import (
	"math"
	"sort"

	"github.com/jonathan/skill-passport/internal/types"
)

// MaxScore is the top of the readiness scale.
const MaxScore = 1000

// VerifiedSkills returns the skills whose level came from an assessment, in input order.
func VerifiedSkills(skills []types.Skill) []types.Skill {
	out := make([]types.Skill, 0, len(skills))
	for _, s := range skills {
		if s.Verified {
			out = append(out, s)
		}
	}
	return out
}

// CalculateScore returns the readiness score. ok is false when there is nothing to score:
// no verified skills without a profile, or a profile whose weights sum to zero.
//
// Without a profile the score is the average verified level scaled to 0..1000.
// With a profile each required skill contributes min(current/target, 1) times its weight,
// where current is the level of the verified skill with the same name (0 if absent).
func CalculateScore(skills []types.Skill, profile *types.RoleProfile) (int, bool) {
	if profile != nil {
		return profileScore(skills, profile)
	}

	verified := VerifiedSkills(skills)
	if len(verified) == 0 {
		return 0, false
	}
	total := 0
	for _, s := range verified {
		total += s.NormalizedLevel()
	}
	avg := float64(total) / float64(len(verified))
	return int(math.Round(avg / 100 * MaxScore)), true
}

func profileScore(skills []types.Skill, profile *types.RoleProfile) (int, bool) {
	levels := verifiedLevels(skills)

	var weighted, totalWeight float64
	for _, req := range profile.Required {
		if req.Weight <= 0 {
			continue
		}
		totalWeight += req.Weight
		weighted += coverage(levels[types.SkillKey(req.Name)], req.Target) * req.Weight
	}
	if totalWeight == 0 {
		return 0, false
	}
	return int(math.Round(weighted / totalWeight * MaxScore)), true
}

func coverage(current, target int) float64 {
	if target <= 0 {
		return 1
	}
	ratio := float64(current) / float64(target)
	return math.Max(0, math.Min(1, ratio))
}

// verifiedLevels maps skill keys to clamped levels. The first verified record for a name wins.
func verifiedLevels(skills []types.Skill) map[string]int {
	levels := make(map[string]int, len(skills))
	for _, s := range skills {
		if !s.Verified {
			continue
		}
		if _, seen := levels[s.Key()]; !seen {
			levels[s.Key()] = s.NormalizedLevel()
		}
	}
	return levels
}

// Insights picks out the strongest, second strongest and weakest verified skills.
// Missing entries are nil.
type Insights struct {
	Top    *types.Skill `json:"top"`
	Second *types.Skill `json:"second"`
	Lowest *types.Skill `json:"lowest"`
}

// SkillInsights ranks verified skills by level.
func SkillInsights(skills []types.Skill) Insights {
	verified := VerifiedSkills(skills)
	if len(verified) == 0 {
		return Insights{}
	}
	sort.SliceStable(verified, func(i, j int) bool {
		return verified[i].NormalizedLevel() > verified[j].NormalizedLevel()
	})

	var in Insights
	in.Top = &verified[0]
	if len(verified) > 1 {
		in.Second = &verified[1]
	}
	in.Lowest = &verified[len(verified)-1]
	return in
}
