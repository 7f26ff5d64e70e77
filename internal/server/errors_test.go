package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/skill-passport/internal/assessment"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "email", Message: "bad"}, http.StatusBadRequest},
		{"assessment validation", &assessment.ErrValidation{Field: "skillName", Message: "skillName is required"}, http.StatusBadRequest},
		{"no readable files", fmt.Errorf("extract: %w", assessment.ErrNoReadableFiles), http.StatusBadRequest},
		{"unknown role", &ErrUnknownRole{Role: "Astronaut"}, http.StatusBadRequest},
		{"already verified", &ErrAlreadyVerified{}, http.StatusBadRequest},
		{"otp missing", &ErrOTPMissing{}, http.StatusBadRequest},
		{"otp expired", &ErrOTPExpired{}, http.StatusBadRequest},
		{"otp mismatch", &ErrOTPMismatch{}, http.StatusBadRequest},
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.co"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"unverified", &ErrAccountUnverified{}, http.StatusForbidden},
		{"user not found", &ErrUserNotFound{Email: "a@b.co"}, http.StatusNotFound},
		{"wrapped", fmt.Errorf("signup: %w", &ErrEmailAlreadyExists{}), http.StatusConflict},
		{"mail delivery", &ErrMailDelivery{Email: "a@b.co", Cause: errors.New("503")}, http.StatusInternalServerError},
		{"upstream", &assessment.ErrUpstream{Message: "model unavailable"}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Invalid OTP", publicMessage(&ErrOTPMismatch{}))
	assert.Equal(t, "Unknown goal role: Astronaut", publicMessage(&ErrUnknownRole{Role: "Astronaut"}))
	assert.Equal(t, "Failed to send OTP email", publicMessage(&ErrMailDelivery{Cause: errors.New("api key revoked")}))
	assert.Equal(t, "Internal server error", publicMessage(errors.New("pq: connection refused")))

	upstream := &assessment.ErrUpstream{Message: "model unavailable", Cause: errors.New("dial tcp")}
	assert.Equal(t, upstream.Error(), publicMessage(fmt.Errorf("assess: %w", upstream)))
}
