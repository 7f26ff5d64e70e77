package readiness

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/jonathan/skill-passport/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var rolesYAML []byte

type roleFile struct {
	Roles []types.RoleProfile `yaml:"roles"`
}

var (
	rolesOnce sync.Once
	roles     map[string]types.RoleProfile
	rolesErr  error
)

// ParseRoles decodes a role profile document and checks every requirement.
func ParseRoles(data []byte) (map[string]types.RoleProfile, error) {
	var doc roleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse role profiles: %w", err)
	}

	out := make(map[string]types.RoleProfile, len(doc.Roles))
	for _, r := range doc.Roles {
		if r.Name == "" {
			return nil, fmt.Errorf("role profile without a name")
		}
		key := types.SkillKey(r.Name)
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate role profile %q", r.Name)
		}
		for _, req := range r.Required {
			if req.Target < 0 || req.Target > 100 {
				return nil, fmt.Errorf("role %q: target for %q must be 0..100", r.Name, req.Name)
			}
			if req.Weight <= 0 {
				return nil, fmt.Errorf("role %q: weight for %q must be positive", r.Name, req.Name)
			}
		}
		out[key] = r
	}
	return out, nil
}

func loadRoles() (map[string]types.RoleProfile, error) {
	rolesOnce.Do(func() {
		roles, rolesErr = ParseRoles(rolesYAML)
	})
	return roles, rolesErr
}

// Roles returns the built-in role profiles sorted by name.
func Roles() []types.RoleProfile {
	m, err := loadRoles()
	if err != nil {
		panic(err)
	}
	out := make([]types.RoleProfile, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Role looks up a built-in profile by case-insensitive name.
func Role(name string) (*types.RoleProfile, bool) {
	m, err := loadRoles()
	if err != nil {
		panic(err)
	}
	r, ok := m[types.SkillKey(name)]
	if !ok {
		return nil, false
	}
	return &r, true
}

// RoleNames returns the built-in role names sorted.
func RoleNames() []string {
	all := Roles()
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.Name
	}
	return names
}
