package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/skill-passport/internal/assessment"
	"github.com/jonathan/skill-passport/internal/config"
	"github.com/jonathan/skill-passport/internal/db"
	"github.com/jonathan/skill-passport/internal/logger"
	"github.com/jonathan/skill-passport/internal/mail"
	"github.com/jonathan/skill-passport/internal/types"
)

// memoryAccounts is an in-memory AccountStore keyed by email.
type memoryAccounts struct {
	mu    sync.Mutex
	users map[string]*db.User
	err   error
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{users: make(map[string]*db.User)}
}

func (m *memoryAccounts) byID(id uuid.UUID) *db.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (m *memoryAccounts) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memoryAccounts) CreatePendingUser(_ context.Context, p db.PendingUser) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[p.Email]; ok {
		return uuid.Nil, db.ErrDuplicateEmail
	}
	otp, expires := p.OTP, p.OTPExpires
	u := &db.User{
		ID:           uuid.New(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		OTP:          &otp,
		OTPExpires:   &expires,
	}
	m.users[p.Email] = u
	return u.ID, nil
}

func (m *memoryAccounts) RefreshPendingUser(_ context.Context, id uuid.UUID, p db.PendingUser) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byID(id)
	if u == nil || u.IsVerified {
		return false, nil
	}
	otp, expires := p.OTP, p.OTPExpires
	u.Name, u.PasswordHash, u.OTP, u.OTPExpires = p.Name, p.PasswordHash, &otp, &expires
	return true, nil
}

func (m *memoryAccounts) SetOTP(_ context.Context, id uuid.UUID, otp string, expires time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byID(id)
	if u == nil || u.IsVerified {
		return false, nil
	}
	u.OTP, u.OTPExpires = &otp, &expires
	return true, nil
}

func (m *memoryAccounts) MarkVerified(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byID(id)
	if u == nil || u.IsVerified {
		return false, nil
	}
	u.IsVerified, u.OTP, u.OTPExpires = true, nil, nil
	return true, nil
}

func (m *memoryAccounts) DeleteExpiredUnverified(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for email, u := range m.users {
		if !u.IsVerified && u.OTPExpires != nil && u.OTPExpires.Before(cutoff) {
			delete(m.users, email)
			n++
		}
	}
	return n, nil
}

// recordingMailer keeps every message it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingMailer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// testClock is a settable time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type accountFixture struct {
	svc    *AccountService
	store  *memoryAccounts
	mailer *recordingMailer
	clock  *testClock
	codes  []string
}

// newAccountFixture returns a service with bcrypt cost 10, a 10 minute OTP TTL
// and codes handed out from the fixture's codes list ("123456" once it is empty).
func newAccountFixture() *accountFixture {
	f := &accountFixture{
		store:  newMemoryAccounts(),
		mailer: &recordingMailer{},
		clock:  &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.svc = NewAccountService(f.store, f.mailer,
		&config.PasswordConfig{BcryptCost: 10},
		&config.OTPConfig{TTL: 10 * time.Minute, Retention: 24 * time.Hour},
		logger.Nop())
	f.svc.now = f.clock.Now
	f.svc.newCode = func() (string, error) {
		if len(f.codes) == 0 {
			return "123456", nil
		}
		code := f.codes[0]
		f.codes = f.codes[1:]
		return code, nil
	}
	return f
}

// fakeAssessor returns a canned result or error and records the last request.
type fakeAssessor struct {
	mu       sync.Mutex
	result   *types.Assessment
	err      error
	last     assessment.Request
	hasModel bool
	demo     bool
}

func (f *fakeAssessor) Assess(_ context.Context, req assessment.Request) (*types.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	if req.SkillName == "" {
		return nil, &assessment.ErrValidation{Field: "skillName", Message: "skillName required"}
	}
	if len(req.Archive) == 0 {
		return nil, &assessment.ErrValidation{Field: "projectZip", Message: "projectZip required"}
	}
	return f.result, nil
}

func (f *fakeAssessor) HasModel() bool { return f.hasModel }
func (f *fakeAssessor) DemoMode() bool { return f.demo }

// memoryJobs is an in-memory JobStore.
type memoryJobs struct {
	mu   sync.Mutex
	jobs []db.Job
	err  error
}

func (m *memoryJobs) CreateJob(_ context.Context, title, company string, requiredSkills []string, minScore int) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	job := db.Job{
		ID:             uuid.New(),
		Title:          title,
		Company:        company,
		RequiredSkills: requiredSkills,
		MinScore:       minScore,
		CreatedAt:      time.Date(2026, 3, 1, 12, len(m.jobs), 0, 0, time.UTC),
	}
	m.jobs = append(m.jobs, job)
	return &job, nil
}

func (m *memoryJobs) ListJobs(_ context.Context, limit int) ([]db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := append([]db.Job(nil), m.jobs...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryJobs) DeleteJob(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, j := range m.jobs {
		if j.ID == id {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

var errStoreDown = errors.New("connection refused")
