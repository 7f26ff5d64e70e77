// Package observability provides formatted terminal output for the skillpassport CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/skill-passport/internal/readiness"
	"github.com/jonathan/skill-passport/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted CLI output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n characters, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// writeList appends a bulleted list capped at maxItemsToShow.
func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintAssessment outputs an assessment result. Demo results carry their reason in the title.
func (p *Printer) PrintAssessment(a *types.Assessment) {
	if a == nil {
		return
	}

	title := fmt.Sprintf("%s: level %d/100", a.SkillName, a.Level)
	if a.Source == types.SourceFallback {
		title += fmt.Sprintf(" (demo: %s)", a.Reason)
	}

	var sb strings.Builder
	if a.GoalRole != "" {
		sb.WriteString(fmt.Sprintf("Goal role: %s\n\n", a.GoalRole))
	}
	if a.Summary != "" {
		sb.WriteString(a.Summary + "\n\n")
	}
	writeList(&sb, "Strengths", a.Strengths)
	writeList(&sb, "Gaps", a.Gaps)
	if len(a.Roadmap) > 0 {
		sb.WriteString("Roadmap:\n")
		for i, step := range a.Roadmap {
			sb.WriteString(fmt.Sprintf("  %d. %s (+%d)\n", i+1, step.Title, step.Points))
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs numbered roadmap steps with their details.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRoadmap(steps []types.RoadmapStep) {
	if len(steps) == 0 {
		fmt.Fprintln(p.out, "Nothing to improve right now.")
		return
	}
	total := 0
	for i, s := range steps {
		fmt.Fprintf(p.out, "  %d. %s (+%d)", i+1, s.Title, s.Points)
		if s.From != "" {
			fmt.Fprintf(p.out, " [%s]", s.From)
		}
		fmt.Fprintln(p.out)
		if s.Detail != "" {
			fmt.Fprintf(p.out, "     %s\n", s.Detail)
		}
		total += s.Points
	}
	fmt.Fprintf(p.out, "\n%d steps, %d points available\n", len(steps), total)
}

// PrintSkills outputs one line per skill with its level and verification state.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSkills(skills []types.Skill) {
	if len(skills) == 0 {
		fmt.Fprintln(p.out, "No skills yet. Run `skillpassport assess` to verify one.")
		return
	}
	for _, s := range skills {
		status := "self-rated"
		if s.Verified {
			status = "verified"
		}
		fmt.Fprintf(p.out, "%-24s %3d  %s\n", s.Name, s.NormalizedLevel(), status)
	}
}

// PrintInsights outputs the strongest and weakest verified skills.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintInsights(in readiness.Insights) {
	if in.Top != nil {
		fmt.Fprintf(p.out, "Strongest: %s (%d)\n", in.Top.Name, in.Top.NormalizedLevel())
	}
	if in.Second != nil {
		fmt.Fprintf(p.out, "Runner-up: %s (%d)\n", in.Second.Name, in.Second.NormalizedLevel())
	}
	if in.Lowest != nil && in.Lowest != in.Top {
		fmt.Fprintf(p.out, "Needs work: %s (%d)\n", in.Lowest.Name, in.Lowest.NormalizedLevel())
	}
}

// PrintRoles outputs each role profile with its requirements.
func (p *Printer) PrintRoles(roles []types.RoleProfile) {
	for _, role := range roles {
		var sb strings.Builder
		for _, req := range role.Required {
			sb.WriteString(fmt.Sprintf("%-24s target %3d  weight %.1f\n", req.Name, req.Target, req.Weight))
		}
		p.printBox(role.Name, strings.TrimSuffix(sb.String(), "\n"))
	}
}

// PrintMatches outputs a ranked candidate table for a job with the given number of required skills.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMatches(matches []types.CandidateMatch, required int) {
	fmt.Fprintf(p.out, "%-24s %5s %7s %11s\n", "CANDIDATE", "SCORE", "MATCHED", "SUITABILITY")
	for _, m := range matches {
		fmt.Fprintf(p.out, "%-24s %5d %4d/%-2d %11d\n",
			truncate(m.Candidate.Name, 24), m.Score, m.MatchedCount, required, m.Suitability)
	}
}
