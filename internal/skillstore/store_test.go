package skillstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/skill-passport/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "store.json"))

	skills, err := s.Skills(context.Background())
	require.NoError(t, err)
	assert.Empty(t, skills)
	assert.NotNil(t, skills)

	steps, err := s.Roadmap(context.Background())
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestFileStore_RoundTripKeepsKeysIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "store.json"))

	skills := []types.Skill{{Name: "Go", Level: 70, Verified: true, Roadmap: []types.RoadmapStep{}}}
	steps := []types.RoadmapStep{{Title: "Add tests", Points: 90, From: "Go"}}

	require.NoError(t, s.SetSkills(ctx, skills))
	require.NoError(t, s.SetRoadmap(ctx, steps))

	gotSkills, err := s.Skills(ctx)
	require.NoError(t, err)
	assert.Equal(t, skills, gotSkills)

	gotSteps, err := s.Roadmap(ctx)
	require.NoError(t, err)
	assert.Equal(t, steps, gotSteps)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"skills"`)
	assert.Contains(t, string(data), `"_from": "Go"`)
}

func TestFileStore_MalformedIsAbsent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	s := NewFileStore(path)
	skills, err := s.Skills(ctx)
	require.NoError(t, err)
	assert.Empty(t, skills)

	require.NoError(t, os.WriteFile(path, []byte(`{"skills": "oops", "roadmap": [{"title": "Keep", "points": 10}]}`), 0o644))
	skills, err = s.Skills(ctx)
	require.NoError(t, err)
	assert.Empty(t, skills)

	steps, err := s.Roadmap(ctx)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "Keep", steps[0].Title)

	require.NoError(t, s.SetSkills(ctx, []types.Skill{{Name: "SQL"}}))
	steps, err = s.Roadmap(ctx)
	require.NoError(t, err)
	assert.Len(t, steps, 1, "writing one key preserves the other")
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SetSkills(ctx, []types.Skill{{Name: "Go"}}))
	got, err := m.Skills(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	steps, err := m.Roadmap(ctx)
	require.NoError(t, err)
	assert.Empty(t, steps)
}
