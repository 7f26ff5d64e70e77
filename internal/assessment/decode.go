package assessment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/skill-passport/internal/schemas"
	"github.com/jonathan/skill-passport/internal/types"
	schemafiles "github.com/jonathan/skill-passport/schemas"
)

var assessmentSchema = mustCompile(schemafiles.Assessment)

func mustCompile(content string) *schemas.Validator {
	v, err := schemas.Compile(content)
	if err != nil {
		panic(fmt.Sprintf("assessment schema: %v", err))
	}
	return v
}

// decodeModelOutput validates model text against the assessment schema and decodes it.
// Anything that does not match the schema is rejected.
func decodeModelOutput(text string) (*types.AssessmentFields, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty model output")
	}
	if err := assessmentSchema.Validate(text); err != nil {
		return nil, err
	}

	var fields types.AssessmentFields
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode assessment: %w", err)
	}

	if fields.Strengths == nil {
		fields.Strengths = []string{}
	}
	if fields.Gaps == nil {
		fields.Gaps = []string{}
	}
	if fields.Roadmap == nil {
		fields.Roadmap = []types.RoadmapStep{}
	}
	// Provenance is assigned by the client, never by the model.
	for i := range fields.Roadmap {
		fields.Roadmap[i].From = ""
	}
	return &fields, nil
}
