// Package types provides type definitions for structured data used throughout the skill passport.
package types

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PasswordSymbols is the punctuation set a password must draw at least one character from.
const PasswordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?` + "`~"

// PasswordMinLength is the minimum password length.
const PasswordMinLength = 8

// SignupRequest represents the request to create (or refresh) an unverified account.
type SignupRequest struct {
	Name     string `json:"name,omitempty" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// VerifyOTPRequest carries the emailed one-time code.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// ResendOTPRequest asks for a fresh code for an unverified account.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PublicUser is the account view returned to clients. It never carries credentials or OTP state.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// AuthResponse is the body of every successful /auth response.
type AuthResponse struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	User    *PublicUser `json:"user,omitempty"`
	TestOTP string      `json:"testOtp,omitempty"`
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PasswordProblems lists the policy requirements the password is missing, in a fixed order.
// An empty result means the password is acceptable.
func PasswordProblems(pw string) []string {
	var problems []string
	if len([]rune(pw)) < PasswordMinLength {
		problems = append(problems, "at least 8 characters")
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	if !lower {
		problems = append(problems, "a lowercase letter")
	}
	if !upper {
		problems = append(problems, "an uppercase letter")
	}
	if !digit {
		problems = append(problems, "a number")
	}
	if !symbol {
		problems = append(problems, "a special character")
	}
	return problems
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

// Validator returns the shared validator. Field errors use JSON names and the custom
// "password" tag is registered.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return len(PasswordProblems(fl.Field().String())) == 0
		})
	})
	return validate
}

// Validate validates the SignupRequest.
func (r *SignupRequest) Validate() error {
	return Validator().Struct(r)
}

// Validate validates the VerifyOTPRequest.
func (r *VerifyOTPRequest) Validate() error {
	return Validator().Struct(r)
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	return Validator().Struct(r)
}
