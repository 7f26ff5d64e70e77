// Package schemas embeds the JSON Schemas used to validate model output.
package schemas

import _ "embed"

// Assessment is the JSON Schema for a model-produced skill assessment.
//
//go:embed assessment.schema.json
var Assessment string
