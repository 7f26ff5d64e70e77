package server

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/skill-passport/internal/config"
	"github.com/jonathan/skill-passport/internal/db"
	"github.com/jonathan/skill-passport/internal/logger"
	"github.com/jonathan/skill-passport/internal/mail"
	"github.com/jonathan/skill-passport/internal/types"
)

// AccountStore is the persistence the account service needs. *db.DB implements it.
type AccountStore interface {
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CreatePendingUser(ctx context.Context, p db.PendingUser) (uuid.UUID, error)
	RefreshPendingUser(ctx context.Context, id uuid.UUID, p db.PendingUser) (bool, error)
	SetOTP(ctx context.Context, id uuid.UUID, otp string, expires time.Time) (bool, error)
	MarkVerified(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteExpiredUnverified(ctx context.Context, cutoff time.Time) (int64, error)
}

const otpDigits = 6

// AccountService runs the signup, verification and login flow.
// Accounts move from unverified to verified exactly once.
type AccountService struct {
	store     AccountStore
	mailer    mail.Sender
	passwords *config.PasswordConfig
	otp       *config.OTPConfig
	log       *logger.Logger
	now       func() time.Time
	newCode   func() (string, error)
}

// NewAccountService creates an AccountService with the given dependencies
func NewAccountService(store AccountStore, mailer mail.Sender, passwords *config.PasswordConfig, otp *config.OTPConfig, log *logger.Logger) *AccountService {
	return &AccountService{
		store:     store,
		mailer:    mailer,
		passwords: passwords,
		otp:       otp,
		log:       log.With("component", "accounts"),
		now:       time.Now,
		newCode:   generateOTP,
	}
}

// PendingSignup is returned when a code was issued. Code is only exposed in test mode.
type PendingSignup struct {
	Email string
	Code  string
}

// generateOTP returns a uniformly random zero-padded 6 digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func toPublicUser(u *db.User) *types.PublicUser {
	return &types.PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Signup creates an unverified account, or restarts signup for one that never verified,
// and emails a fresh code.
func (s *AccountService) Signup(ctx context.Context, req *types.SignupRequest) (*PendingSignup, error) {
	email := types.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if existing != nil && existing.IsVerified {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	code, err := s.newCode()
	if err != nil {
		return nil, err
	}

	pending := db.PendingUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		OTP:          code,
		OTPExpires:   s.now().Add(s.otp.TTL),
	}

	if existing == nil {
		if _, err := s.store.CreatePendingUser(ctx, pending); err != nil {
			if errors.Is(err, db.ErrDuplicateEmail) {
				return nil, &ErrEmailAlreadyExists{Email: email}
			}
			return nil, err
		}
		s.log.Info("account created", "email", email)
	} else {
		ok, err := s.store.RefreshPendingUser(ctx, existing.ID, pending)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Verified between the lookup and the update.
			return nil, &ErrEmailAlreadyExists{Email: email}
		}
		s.log.Info("pending signup refreshed", "email", email)
	}

	if err := s.sendCode(ctx, email, name, code); err != nil {
		return nil, err
	}
	return &PendingSignup{Email: email, Code: code}, nil
}

// ResendOTP issues and emails a new code for an unverified account.
func (s *AccountService) ResendOTP(ctx context.Context, rawEmail string) (*PendingSignup, error) {
	email := types.NormalizeEmail(rawEmail)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{Email: email}
	}
	if user.IsVerified {
		return nil, &ErrAlreadyVerified{}
	}

	code, err := s.newCode()
	if err != nil {
		return nil, err
	}
	ok, err := s.store.SetOTP(ctx, user.ID, code, s.now().Add(s.otp.TTL))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ErrAlreadyVerified{}
	}

	if err := s.sendCode(ctx, email, user.Name, code); err != nil {
		return nil, err
	}
	return &PendingSignup{Email: email, Code: code}, nil
}

func (s *AccountService) sendCode(ctx context.Context, email, name, code string) error {
	if err := s.mailer.Send(ctx, mail.OTPMessage(email, name, code, s.otp.TTL)); err != nil {
		s.log.Error("failed to send otp email", "email", email, "error", err)
		return &ErrMailDelivery{Email: email, Cause: err}
	}
	return nil
}

// VerifyOTP checks the code and marks the account verified.
// The code must match exactly and the current time must be before its expiry.
func (s *AccountService) VerifyOTP(ctx context.Context, rawEmail, code string) (*types.PublicUser, error) {
	email := types.NormalizeEmail(rawEmail)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{Email: email}
	}
	if user.IsVerified {
		return nil, &ErrAlreadyVerified{}
	}
	if user.OTP == nil || *user.OTP == "" || user.OTPExpires == nil {
		return nil, &ErrOTPMissing{}
	}
	if !s.now().Before(*user.OTPExpires) {
		return nil, &ErrOTPExpired{}
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(*user.OTP)) != 1 {
		return nil, &ErrOTPMismatch{}
	}

	ok, err := s.store.MarkVerified(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ErrAlreadyVerified{}
	}

	s.log.Info("account verified", "email", email)
	user.IsVerified = true
	return toPublicUser(user), nil
}

// Login checks the password of a verified account.
func (s *AccountService) Login(ctx context.Context, req *types.LoginRequest) (*types.PublicUser, error) {
	email := types.NormalizeEmail(req.Email)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		s.passwords.BurnCompare(req.Password)
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwords.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	if !user.IsVerified {
		return nil, &ErrAccountUnverified{}
	}
	return toPublicUser(user), nil
}

// SweepUnverified deletes unverified accounts whose code expired more than the
// configured retention ago.
func (s *AccountService) SweepUnverified(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.otp.Retention)
	n, err := s.store.DeleteExpiredUnverified(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("removed abandoned signups", "count", n, "cutoff", cutoff)
	}
	return n, nil
}

// RunSweeper calls SweepUnverified every SweepInterval until ctx is done.
// Sweep failures are logged and retried on the next tick.
func (s *AccountService) RunSweeper(ctx context.Context) error {
	if s.otp.SweepInterval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.otp.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepUnverified(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("sweep of unverified accounts failed", "error", err)
			}
		}
	}
}
