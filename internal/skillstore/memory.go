package skillstore

import (
	"context"
	"sync"

	"github.com/jonathan/skill-passport/internal/types"
)

// Memory is an in-process Repository used by tests.
type Memory struct {
	mu      sync.Mutex
	skills  []types.Skill
	roadmap []types.RoadmapStep
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Skills(context.Context) ([]types.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Skill{}, m.skills...), nil
}

func (m *Memory) SetSkills(_ context.Context, skills []types.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skills = append([]types.Skill{}, skills...)
	return nil
}

func (m *Memory) Roadmap(context.Context) ([]types.RoadmapStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.RoadmapStep{}, m.roadmap...), nil
}

func (m *Memory) SetRoadmap(_ context.Context, steps []types.RoadmapStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roadmap = append([]types.RoadmapStep{}, steps...)
	return nil
}
