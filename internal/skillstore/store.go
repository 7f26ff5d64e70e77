// Package skillstore persists a user's skill list and roadmap snapshot.
package skillstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/skill-passport/internal/types"
)

// Stored keys.
const (
	KeySkills  = "skills"
	KeyRoadmap = "roadmap"
)

// Repository reads and writes skill state. Missing or malformed data reads as empty.
type Repository interface {
	Skills(ctx context.Context) ([]types.Skill, error)
	SetSkills(ctx context.Context, skills []types.Skill) error
	Roadmap(ctx context.Context) ([]types.RoadmapStep, error)
	SetRoadmap(ctx context.Context, steps []types.RoadmapStep) error
}

// FileStore keeps both keys in one JSON document on disk.
// Writes are read-modify-write under a process-local lock; the last writer wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the store location under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "skill-passport", "store.json"), nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Skills(_ context.Context) ([]types.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	var skills []types.Skill
	if !decodeKey(doc, KeySkills, &skills) || skills == nil {
		return []types.Skill{}, nil
	}
	return skills, nil
}

func (s *FileStore) SetSkills(_ context.Context, skills []types.Skill) error {
	if skills == nil {
		skills = []types.Skill{}
	}
	return s.put(KeySkills, skills)
}

func (s *FileStore) Roadmap(_ context.Context) ([]types.RoadmapStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	var steps []types.RoadmapStep
	if !decodeKey(doc, KeyRoadmap, &steps) || steps == nil {
		return []types.RoadmapStep{}, nil
	}
	return steps, nil
}

func (s *FileStore) SetRoadmap(_ context.Context, steps []types.RoadmapStep) error {
	if steps == nil {
		steps = []types.RoadmapStep{}
	}
	return s.put(KeyRoadmap, steps)
}

func (s *FileStore) put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[key] = raw
	return s.save(doc)
}

// load returns the stored document. A missing or unparsable file is an empty document.
func (s *FileStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read skill store: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return map[string]json.RawMessage{}, nil
	}
	return doc, nil
}

func (s *FileStore) save(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode skill store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create skill store dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("failed to write skill store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write skill store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write skill store: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// decodeKey reports whether key was present and decoded cleanly.
func decodeKey(doc map[string]json.RawMessage, key string, out any) bool {
	raw, ok := doc[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
