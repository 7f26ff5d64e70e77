package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/skill-passport/internal/readiness"
	"github.com/jonathan/skill-passport/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintAssessment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment(&types.Assessment{
		Source:    types.SourceLive,
		SkillName: "React",
		GoalRole:  "Frontend Developer",
		AssessmentFields: types.AssessmentFields{
			Level:     74,
			Summary:   "Good component structure.",
			Strengths: []string{"hooks", "routing"},
			Gaps:      []string{"a", "b", "c", "d", "e", "f", "g"},
			Roadmap:   []types.RoadmapStep{{Title: "Add tests", Points: 90}},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "React: level 74/100")
	assert.NotContains(t, output, "demo")
	assert.Contains(t, output, "Goal role: Frontend Developer")
	assert.Contains(t, output, "• hooks")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "1. Add tests (+90)")
}

func TestPrintAssessment_Fallback(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment(&types.Assessment{Source: types.SourceFallback, Reason: "quota or rate limit", SkillName: "Go"})

	assert.Contains(t, buf.String(), "Go: level 0/100 (demo: quota or rate limit)")
}

func TestPrintAssessment_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAssessment(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintRoadmap(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRoadmap([]types.RoadmapStep{
		{Title: "Level up SQL", Detail: "Raise SQL from 40 to the target of 85.", Points: 72, From: "SQL"},
		{Title: "Add tests", Points: 90},
	})
	output := buf.String()

	assert.Contains(t, output, "1. Level up SQL (+72) [SQL]")
	assert.Contains(t, output, "Raise SQL from 40 to the target of 85.")
	assert.Contains(t, output, "2. Add tests (+90)\n")
	assert.Contains(t, output, "2 steps, 162 points available")

	buf.Reset()
	p.PrintRoadmap(nil)
	assert.Equal(t, "Nothing to improve right now.\n", buf.String())
}

func TestPrintSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSkills([]types.Skill{
		{Name: "Go", Verified: true, Level: 88},
		{Name: "Rust", Level: 140},
	})
	output := buf.String()

	assert.Contains(t, output, "Go")
	assert.Contains(t, output, " 88  verified")
	assert.Contains(t, output, "100  self-rated")
}

func TestPrintInsights(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintInsights(readiness.SkillInsights([]types.Skill{{Name: "Go", Verified: true, Level: 70}}))

	assert.Equal(t, "Strongest: Go (70)\n", buf.String())
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatches([]types.CandidateMatch{
		{Candidate: types.Candidate{Name: "Grace"}, Score: 90, MatchedCount: 1, Suitability: 78},
	}, 2)
	output := buf.String()

	assert.Contains(t, output, "SUITABILITY")
	assert.Contains(t, output, "Grace")
	assert.Contains(t, output, "1/2")
}
