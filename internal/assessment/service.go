// Package assessment turns an uploaded project archive into a skill assessment.
//
// A request flows through archive extraction, prompt construction, one model call,
// and schema validation. Demo mode, quota errors, and unusable model output all
// produce the fixed fallback assessment instead of an error.
package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jonathan/skill-passport/internal/archive"
	"github.com/jonathan/skill-passport/internal/cache"
	"github.com/jonathan/skill-passport/internal/llm"
	"github.com/jonathan/skill-passport/internal/logger"
	"github.com/jonathan/skill-passport/internal/prompts"
	"github.com/jonathan/skill-passport/internal/types"
)

const (
	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 60 * time.Second
	// DefaultCacheTTL is how long a live assessment stays cached.
	DefaultCacheTTL = 24 * time.Hour
)

// Config controls the assessment service.
type Config struct {
	DemoMode bool
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Request is one assessment request.
type Request struct {
	SkillName string
	GoalRole  string
	Notes     string
	Archive   []byte
}

// Service runs assessments. The model client may be nil when no API key is configured.
type Service struct {
	client llm.Client
	cache  cache.Cache
	log    *logger.Logger
	cfg    Config
	now    func() time.Time
}

// NewService creates an assessment service. A nil cache disables caching.
func NewService(client llm.Client, c cache.Cache, log *logger.Logger, cfg Config) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &Service{client: client, cache: c, log: log, cfg: cfg, now: time.Now}
}

// HasModel reports whether a live model client is configured.
func (s *Service) HasModel() bool {
	return s.client != nil
}

// DemoMode reports whether every request is answered with the fallback assessment.
func (s *Service) DemoMode() bool {
	return s.cfg.DemoMode
}

// Assess validates the request, extracts the archive, and asks the model for an assessment.
func (s *Service) Assess(ctx context.Context, req Request) (*types.Assessment, error) {
	skillName := strings.TrimSpace(req.SkillName)
	goalRole := strings.TrimSpace(req.GoalRole)
	notes := strings.TrimSpace(req.Notes)

	if skillName == "" {
		return nil, &ErrValidation{Field: "skillName", Message: "skillName required"}
	}
	if len(req.Archive) == 0 {
		return nil, &ErrValidation{Field: "projectZip", Message: "projectZip required"}
	}

	if s.cfg.DemoMode {
		s.log.Info("assessment served in demo mode", "skill", skillName)
		return Fallback(skillName, goalRole, ReasonDemoMode, s.now()), nil
	}

	files, err := archive.Extract(req.Archive)
	if err != nil {
		var formatErr *archive.FormatError
		if errors.As(err, &formatErr) {
			return nil, &ErrValidation{Field: "projectZip", Message: err.Error()}
		}
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoReadableFiles
	}

	key := cacheKey(skillName, goalRole, notes, req.Archive)
	if cached, ok := s.lookup(ctx, key); ok {
		cached.SkillName = skillName
		cached.GoalRole = goalRole
		return cached, nil
	}

	if s.client == nil {
		return nil, &ErrUpstream{Message: "model client not configured (set GEMINI_API_KEY or DEMO_MODE)"}
	}

	prompt := prompts.BuildAssessmentPrompt(skillName, goalRole, notes, files)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := s.now()
	text, err := s.client.GenerateJSON(callCtx, prompt)
	if err != nil {
		if IsQuotaError(err) {
			s.log.Warn("model quota exhausted, using fallback", "skill", skillName, "error", err)
			return Fallback(skillName, goalRole, ReasonQuota, s.now()), nil
		}
		s.log.Error("model call failed", "skill", skillName, "error", err)
		return nil, &ErrUpstream{Message: "model call failed", Cause: err}
	}

	fields, err := decodeModelOutput(text)
	if err != nil {
		s.log.Warn("model output rejected, using fallback", "skill", skillName, "error", err)
		return Fallback(skillName, goalRole, ReasonInvalidOutput, s.now()), nil
	}

	result := &types.Assessment{
		Source:           types.SourceLive,
		SkillName:        skillName,
		GoalRole:         goalRole,
		AssessedAt:       s.now().UTC(),
		AssessmentFields: *fields,
	}
	s.log.Info("assessment completed",
		"skill", skillName,
		"model", s.client.Model(),
		"files", len(files),
		"level", result.Level,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	s.store(ctx, key, result)
	return result, nil
}

func (s *Service) lookup(ctx context.Context, key string) (*types.Assessment, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("assessment cache read failed", "error", err)
		}
		return nil, false
	}
	var a types.Assessment
	if err := json.Unmarshal(raw, &a); err != nil {
		s.log.Warn("discarding corrupt cached assessment", "error", err)
		return nil, false
	}
	return &a, true
}

func (s *Service) store(ctx context.Context, key string, a *types.Assessment) {
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil {
		s.log.Warn("assessment cache write failed", "error", err)
	}
}

// cacheKey identifies an assessment by its inputs. Fields are NUL-separated so
// ("ab", "c") and ("a", "bc") do not collide.
func cacheKey(skillName, goalRole, notes string, archive []byte) string {
	h := sha256.New()
	for _, part := range []string{strings.ToLower(skillName), strings.ToLower(goalRole), notes} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(archive)
	return "assessment:" + hex.EncodeToString(h.Sum(nil))
}
