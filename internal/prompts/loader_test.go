package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("assessment.json", "assessment-instructions")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("assessment.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestFormat_ValuesAreNotRescanned(t *testing.T) {
	template := "{{.A}} and {{.B}}"
	data := map[string]string{
		"A": "{{.B}}",
		"B": "bee",
	}

	assert.Equal(t, "{{.B}} and bee", Format(template, data))
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("assessment.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"assessment-instructions", "assessment-request"}, keys)
}
