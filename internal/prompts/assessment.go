package prompts

import (
	"strings"

	"github.com/jonathan/skill-passport/internal/types"
)

const assessmentFile = "assessment.json"

// BuildAssessmentPrompt renders the skill assessment prompt: the JSON output contract,
// the skill and optional context, then every file as a labeled section.
// No validation happens here; the caller decides what to do with malformed output.
func BuildAssessmentPrompt(skillName, goalRole, notes string, files []types.SourceFile) string {
	sections := make([]string, 0, len(files))
	for _, f := range files {
		sections = append(sections, "--- "+f.Path+" ---\n"+f.Content)
	}

	var sb strings.Builder
	sb.WriteString(MustGet(assessmentFile, "assessment-instructions"))
	sb.WriteString("\n\n")
	sb.WriteString(Format(MustGet(assessmentFile, "assessment-request"), map[string]string{
		"SkillName": skillName,
		"GoalRole":  goalRole,
		"Notes":     notes,
		"Files":     strings.Join(sections, "\n\n"),
	}))
	return sb.String()
}
