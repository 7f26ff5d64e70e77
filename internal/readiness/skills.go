package readiness

import (
	"sort"
	"strings"

	"github.com/jonathan/skill-passport/internal/types"
)

// FromAssessment turns an assessment into a verified skill record.
func FromAssessment(name string, a *types.Assessment) types.Skill {
	roadmap := make([]types.RoadmapStep, len(a.Roadmap))
	copy(roadmap, a.Roadmap)
	return types.Skill{
		Name:     strings.TrimSpace(name),
		Verified: true,
		Level:    types.ClampLevel(a.Level),
		Summary:  a.Summary,
		Roadmap:  roadmap,
	}
}

// UpsertSkill replaces any record with the same case-insensitive name and returns
// a new list sorted by name. The input slice is not modified.
func UpsertSkill(skills []types.Skill, skill types.Skill) []types.Skill {
	out := RemoveSkill(skills, skill.Name)
	out = append(out, skill)
	sortByName(out)
	return out
}

// RemoveSkill returns a copy of the list without the named skill.
func RemoveSkill(skills []types.Skill, name string) []types.Skill {
	key := types.SkillKey(name)
	out := make([]types.Skill, 0, len(skills))
	for _, s := range skills {
		if s.Key() != key {
			out = append(out, s)
		}
	}
	return out
}

// FindSkill returns the record with the given case-insensitive name.
func FindSkill(skills []types.Skill, name string) (types.Skill, bool) {
	key := types.SkillKey(name)
	for _, s := range skills {
		if s.Key() == key {
			return s, true
		}
	}
	return types.Skill{}, false
}

// SetLevel records a manual self-rating. Manually rated skills are not verified.
func SetLevel(skills []types.Skill, name string, level int) []types.Skill {
	skill, ok := FindSkill(skills, name)
	if !ok {
		skill = types.Skill{Name: strings.TrimSpace(name), Roadmap: []types.RoadmapStep{}}
	}
	skill.Level = types.ClampLevel(level)
	skill.Verified = false
	return UpsertSkill(skills, skill)
}

func sortByName(skills []types.Skill) {
	sort.SliceStable(skills, func(i, j int) bool {
		a, b := skills[i].Key(), skills[j].Key()
		if a != b {
			return a < b
		}
		return skills[i].Name < skills[j].Name
	})
}
