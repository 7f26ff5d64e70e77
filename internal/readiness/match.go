package readiness

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/skill-passport/internal/types"
)

// MatchCandidates ranks candidates for a job by suitability, highest first.
//
// A candidate's score is the verified-only readiness score on a 0..100 scale.
// Suitability blends that score (70%) with the share of required skills the
// candidate lists (30%).
func MatchCandidates(job types.RecruiterJob, candidates []types.Candidate) []types.CandidateMatch {
	required := requiredSkillKeys(job.RequiredSkills)

	matches := make([]types.CandidateMatch, 0, len(candidates))
	for _, c := range candidates {
		raw, _ := CalculateScore(c.Skills, nil)
		score := normalizeScore(raw)

		names := make(map[string]bool, len(c.Skills))
		for _, s := range c.Skills {
			names[s.Key()] = true
		}
		matched := 0
		for _, r := range required {
			if names[r] {
				matched++
			}
		}

		ratio := 0.0
		if len(required) > 0 {
			ratio = float64(matched) / float64(len(required))
		}

		matches = append(matches, types.CandidateMatch{
			Candidate:    c,
			Score:        score,
			MatchedCount: matched,
			Suitability:  int(math.Round(0.7*float64(score) + 0.3*ratio*100)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Suitability > matches[j].Suitability
	})
	return matches
}

// ParseSkillList splits a comma-separated skill list, dropping blanks.
func ParseSkillList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func requiredSkillKeys(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if k := types.SkillKey(s); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// normalizeScore maps a 0..1000 score onto 0..100.
func normalizeScore(n int) int {
	return int(math.Round(float64(n) / 10))
}
