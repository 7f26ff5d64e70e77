package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/skill-passport/internal/logger"
	"github.com/jonathan/skill-passport/internal/types"
)

const maxJSONBody = 1 << 20

// AuthHandler handles the /auth endpoints.
type AuthHandler struct {
	accounts *AccountService
	log      *logger.Logger
	testMode bool
}

// NewAuthHandler creates a new AuthHandler. In test mode signup responses echo the code.
func NewAuthHandler(accounts *AccountService, log *logger.Logger, testMode bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: log, testMode: testMode}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.log, extractValidationErrors(err))
		return
	}

	pending, err := h.accounts.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := types.AuthResponse{OK: true, Message: "OTP sent to email"}
	if h.testMode {
		resp.TestOTP = pending.Code
	}
	writeJSON(w, h.log, http.StatusOK, resp)
}

// ResendOTP handles POST /auth/resend-otp.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req types.ResendOTPRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := types.Validator().Struct(req); err != nil {
		writeError(w, h.log, extractValidationErrors(err))
		return
	}

	pending, err := h.accounts.ResendOTP(r.Context(), req.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := types.AuthResponse{OK: true, Message: "OTP resent"}
	if h.testMode {
		resp.TestOTP = pending.Code
	}
	writeJSON(w, h.log, http.StatusOK, resp)
}

// VerifyOTP handles POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyOTPRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.log, extractValidationErrors(err))
		return
	}

	if _, err := h.accounts.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, types.AuthResponse{OK: true, Message: "Email verified successfully"})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.log, extractValidationErrors(err))
		return
	}

	user, err := h.accounts.Login(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, types.AuthResponse{OK: true, Message: "Login successful", User: user})
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeJSON(w, r, h.log, dst)
}

// decodeJSON reads a bounded JSON body, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, log *logger.Logger, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, log, &ErrValidation{Field: "body", Message: "Invalid request body"})
		return false
	}
	return true
}

// extractValidationErrors turns the first validator failure into a readable *ErrValidation.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &ErrValidation{Field: "body", Message: "Invalid request"}
	}

	fe := validationErrors[0]
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "email":
		msg = "Invalid email address"
	case "password":
		msg = "Password must contain " + strings.Join(types.PasswordProblems(fe.Value().(string)), ", ")
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
	return &ErrValidation{Field: field, Message: msg}
}
