package server

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jonathan/skill-passport/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Str0ng!Pass"

func signupRequest(email string) *types.SignupRequest {
	return &types.SignupRequest{Name: "Ada", Email: email, Password: testPassword}
}

func TestGenerateOTP(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestAccountService_Signup(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	pending, err := f.svc.Signup(ctx, signupRequest("  Ada@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", pending.Email)
	assert.Equal(t, "123456", pending.Code)

	user, err := f.store.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.IsVerified)
	assert.Equal(t, "123456", *user.OTP)
	assert.Equal(t, f.clock.Now().Add(10*time.Minute), *user.OTPExpires)
	assert.NotEqual(t, testPassword, user.PasswordHash)

	require.Equal(t, 1, f.mailer.count())
	assert.Equal(t, "ada@example.com", f.mailer.sent[0].ToEmail)
	assert.Contains(t, f.mailer.sent[0].Text, "123456")
}

func TestAccountService_Signup_RestartsUnverified(t *testing.T) {
	f := newAccountFixture()
	f.codes = []string{"111111", "222222"}
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupRequest("ada@example.com"))
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	req := signupRequest("ada@example.com")
	req.Name = "Ada Lovelace"
	pending, err := f.svc.Signup(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "222222", pending.Code)

	user, _ := f.store.GetUserByEmail(ctx, "ada@example.com")
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "222222", *user.OTP)
	assert.Len(t, f.store.users, 1)
	assert.Equal(t, 2, f.mailer.count())
}

func TestAccountService_Signup_VerifiedEmailConflicts(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupRequest("ada@example.com"))
	require.NoError(t, err)
	_, err = f.svc.VerifyOTP(ctx, "ada@example.com", "123456")
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, signupRequest("ADA@example.com"))
	var exists *ErrEmailAlreadyExists
	assert.True(t, errors.As(err, &exists))
	assert.Equal(t, 1, f.mailer.count(), "no code is sent for a verified account")
}

func TestAccountService_Signup_MailFailureKeepsAccount(t *testing.T) {
	f := newAccountFixture()
	f.mailer.err = errors.New("sendgrid: 503")
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupRequest("ada@example.com"))
	var delivery *ErrMailDelivery
	require.True(t, errors.As(err, &delivery))

	user, _ := f.store.GetUserByEmail(ctx, "ada@example.com")
	require.NotNil(t, user, "account stays so the user can resend")
	assert.False(t, user.IsVerified)

	f.mailer.err = nil
	_, err = f.svc.ResendOTP(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, f.mailer.count())
}

func TestAccountService_Signup_StoreError(t *testing.T) {
	f := newAccountFixture()
	f.store.err = errStoreDown

	_, err := f.svc.Signup(context.Background(), signupRequest("ada@example.com"))
	assert.ErrorIs(t, err, errStoreDown)
	assert.Zero(t, f.mailer.count())
}

func TestAccountService_VerifyOTP(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *accountFixture)
		email   string
		code    string
		wantErr any
	}{
		{
			name:  "valid code",
			email: "ada@example.com",
			code:  "123456",
		},
		{
			name:  "email is normalized",
			email: " ADA@example.com ",
			code:  "123456",
		},
		{
			name:    "code is compared exactly",
			email:   "ada@example.com",
			code:    " 123456 ",
			wantErr: &ErrOTPMismatch{},
		},
		{
			name:    "wrong code",
			email:   "ada@example.com",
			code:    "654321",
			wantErr: &ErrOTPMismatch{},
		},
		{
			name:    "unknown email",
			email:   "bob@example.com",
			code:    "123456",
			wantErr: &ErrUserNotFound{},
		},
		{
			name:    "expired exactly at expiry",
			setup:   func(f *accountFixture) { f.clock.Advance(10 * time.Minute) },
			email:   "ada@example.com",
			code:    "123456",
			wantErr: &ErrOTPExpired{},
		},
		{
			name:  "one second before expiry",
			setup: func(f *accountFixture) { f.clock.Advance(10*time.Minute - time.Second) },
			email: "ada@example.com",
			code:  "123456",
		},
		{
			name: "expired code is reported before mismatch",
			setup: func(f *accountFixture) {
				f.clock.Advance(time.Hour)
			},
			email:   "ada@example.com",
			code:    "000000",
			wantErr: &ErrOTPExpired{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture()
			ctx := context.Background()
			_, err := f.svc.Signup(ctx, signupRequest("ada@example.com"))
			require.NoError(t, err)
			if tt.setup != nil {
				tt.setup(f)
			}

			user, err := f.svc.VerifyOTP(ctx, tt.email, tt.code)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.IsType(t, tt.wantErr, err)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ada@example.com", user.Email)
			assert.Equal(t, "Ada", user.Name)

			stored, _ := f.store.GetUserByEmail(ctx, "ada@example.com")
			assert.True(t, stored.IsVerified)
			assert.Nil(t, stored.OTP)
		})
	}
}

func TestAccountService_VerifyOTP_OnlyOnce(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, signupRequest("ada@example.com"))
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, "ada@example.com", "123456")
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, "ada@example.com", "123456")
	assert.IsType(t, &ErrAlreadyVerified{}, err)
}

func TestAccountService_ResendOTP(t *testing.T) {
	f := newAccountFixture()
	f.codes = []string{"111111", "222222"}
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupRequest("ada@example.com"))
	require.NoError(t, err)

	f.clock.Advance(20 * time.Minute)
	pending, err := f.svc.ResendOTP(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", pending.Code)

	_, err = f.svc.VerifyOTP(ctx, "ada@example.com", "111111")
	assert.IsType(t, &ErrOTPMismatch{}, err, "the previous code is replaced")

	_, err = f.svc.VerifyOTP(ctx, "ada@example.com", "222222")
	require.NoError(t, err)

	_, err = f.svc.ResendOTP(ctx, "ada@example.com")
	assert.IsType(t, &ErrAlreadyVerified{}, err)

	_, err = f.svc.ResendOTP(ctx, "bob@example.com")
	assert.IsType(t, &ErrUserNotFound{}, err)
}

func TestAccountService_Login(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, signupRequest("ada@example.com"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: testPassword})
	assert.IsType(t, &ErrAccountUnverified{}, err)

	_, err = f.svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.IsType(t, &ErrInvalidCredentials{}, err, "wrong password is not told apart from unverified")

	_, err = f.svc.VerifyOTP(ctx, "ada@example.com", "123456")
	require.NoError(t, err)

	user, err := f.svc.Login(ctx, &types.LoginRequest{Email: " Ada@Example.com", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = f.svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "Str0ng!Pas"})
	assert.IsType(t, &ErrInvalidCredentials{}, err)

	_, err = f.svc.Login(ctx, &types.LoginRequest{Email: "nobody@example.com", Password: testPassword})
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}

func TestAccountService_SweepUnverified(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupRequest("stale@example.com"))
	require.NoError(t, err)
	_, err = f.svc.Signup(ctx, signupRequest("done@example.com"))
	require.NoError(t, err)
	_, err = f.svc.VerifyOTP(ctx, "done@example.com", "123456")
	require.NoError(t, err)

	f.clock.Advance(12 * time.Hour)
	_, err = f.svc.Signup(ctx, signupRequest("fresh@example.com"))
	require.NoError(t, err)

	n, err := f.svc.SweepUnverified(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is older than the retention yet")

	f.clock.Advance(13 * time.Hour)
	n, err = f.svc.SweepUnverified(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stale, _ := f.store.GetUserByEmail(ctx, "stale@example.com")
	assert.Nil(t, stale)
	done, _ := f.store.GetUserByEmail(ctx, "done@example.com")
	assert.NotNil(t, done)
	fresh, _ := f.store.GetUserByEmail(ctx, "fresh@example.com")
	assert.NotNil(t, fresh)
}

func TestAccountService_RunSweeper_StopsOnCancel(t *testing.T) {
	f := newAccountFixture()
	f.svc.otp.SweepInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.svc.RunSweeper(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
