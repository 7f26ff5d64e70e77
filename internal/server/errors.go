// Package server provides the HTTP API for skill assessment, readiness scoring and accounts.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/skill-passport/internal/assessment"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrEmailAlreadyExists indicates the email belongs to a verified account
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return "Email already registered"
}

// ErrMailDelivery indicates the verification email could not be sent.
// The account keeps its new code; the user can sign up again or ask for a resend.
type ErrMailDelivery struct {
	Email string
	Cause error
}

func (e *ErrMailDelivery) Error() string {
	return "Failed to send OTP email"
}

func (e *ErrMailDelivery) Unwrap() error {
	return e.Cause
}

// ErrUserNotFound indicates no account exists for the email
type ErrUserNotFound struct {
	Email string
}

func (e *ErrUserNotFound) Error() string {
	return "User not found"
}

// ErrAlreadyVerified indicates the account has already been verified
type ErrAlreadyVerified struct{}

func (e *ErrAlreadyVerified) Error() string {
	return "Account already verified"
}

// ErrOTPMissing indicates there is no pending code for the account
type ErrOTPMissing struct{}

func (e *ErrOTPMissing) Error() string {
	return "No OTP pending for this account"
}

// ErrOTPExpired indicates the code is past its expiry
type ErrOTPExpired struct{}

func (e *ErrOTPExpired) Error() string {
	return "OTP expired"
}

// ErrOTPMismatch indicates the submitted code is wrong
type ErrOTPMismatch struct{}

func (e *ErrOTPMismatch) Error() string {
	return "Invalid OTP"
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "Invalid email or password"
}

// ErrAccountUnverified indicates a correct password on an account that has not confirmed its email
type ErrAccountUnverified struct{}

func (e *ErrAccountUnverified) Error() string {
	return "Please verify your email before logging in"
}

// ErrUnknownRole indicates a goal role with no profile
type ErrUnknownRole struct {
	Role string
}

func (e *ErrUnknownRole) Error() string {
	return fmt.Sprintf("Unknown goal role: %s", e.Role)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		exists      *ErrEmailAlreadyExists
		notFound    *ErrUserNotFound
		verified    *ErrAlreadyVerified
		missing     *ErrOTPMissing
		expired     *ErrOTPExpired
		mismatch    *ErrOTPMismatch
		credentials *ErrInvalidCredentials
		unverified  *ErrAccountUnverified
		unknownRole *ErrUnknownRole
		assessInput *assessment.ErrValidation
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &assessInput),
		errors.Is(err, assessment.ErrNoReadableFiles), errors.As(err, &unknownRole):
		return http.StatusBadRequest
	case errors.As(err, &verified), errors.As(err, &missing),
		errors.As(err, &expired), errors.As(err, &mismatch):
		return http.StatusBadRequest
	case errors.As(err, &exists):
		return http.StatusConflict
	case errors.As(err, &credentials):
		return http.StatusUnauthorized
	case errors.As(err, &unverified):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the text shown to clients. Errors without a known type
// are reported generically so internal details stay in the logs.
func publicMessage(err error) string {
	var upstream *assessment.ErrUpstream
	if errors.As(err, &upstream) {
		return upstream.Error()
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		var mailDelivery *ErrMailDelivery
		if errors.As(err, &mailDelivery) {
			return mailDelivery.Error()
		}
		return "Internal server error"
	}
	return err.Error()
}
