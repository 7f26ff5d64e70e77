package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/skill-passport/internal/logger"
)

const defaultSendGridURL = "https://api.sendgrid.com"

// SendGridConfig configures the SendGrid v3 mail client.
type SendGridConfig struct {
	APIKey     string
	BaseURL    string
	FromEmail  string
	FromName   string
	Timeout    time.Duration
	MaxRetries int
}

// SendGridConfigFromEnv reads SENDGRID_* variables.
func SendGridConfigFromEnv() SendGridConfig {
	timeoutSec, _ := strconv.Atoi(strings.TrimSpace(os.Getenv("SENDGRID_TIMEOUT_SECONDS")))
	retries, err := strconv.Atoi(strings.TrimSpace(os.Getenv("SENDGRID_MAX_RETRIES")))
	if err != nil {
		retries = 2
	}
	return SendGridConfig{
		APIKey:     strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		BaseURL:    strings.TrimSpace(os.Getenv("SENDGRID_BASE_URL")),
		FromEmail:  strings.TrimSpace(os.Getenv("SENDGRID_FROM_EMAIL")),
		FromName:   strings.TrimSpace(os.Getenv("SENDGRID_FROM_NAME")),
		Timeout:    time.Duration(timeoutSec) * time.Second,
		MaxRetries: retries,
	}
}

// SendGrid sends mail through the SendGrid v3 HTTP API.
type SendGrid struct {
	log        *logger.Logger
	cfg        SendGridConfig
	httpClient *http.Client
	sleep      func(time.Duration)
}

// NewSendGrid validates cfg and returns a client.
func NewSendGrid(log *logger.Logger, cfg SendGridConfig) (*SendGrid, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("missing SENDGRID_FROM_EMAIL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSendGridURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.FromName == "" {
		cfg.FromName = "Skill Passport"
	}

	return &SendGrid{
		log:        log.With("client", "SendGrid"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		sleep:      time.Sleep,
	}, nil
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// HTTPError is a non-2xx response from SendGrid.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Send posts the message to /v3/mail/send, retrying rate limits and server errors.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return fmt.Errorf("sendgrid: recipient required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("sendgrid: subject required")
	}

	var contents []mailContent
	if t := strings.TrimSpace(msg.Text); t != "" {
		contents = append(contents, mailContent{Type: "text/plain", Value: t})
	}
	if h := strings.TrimSpace(msg.HTML); h != "" {
		contents = append(contents, mailContent{Type: "text/html", Value: h})
	}
	if len(contents) == 0 {
		return fmt.Errorf("sendgrid: text or html content required")
	}

	body, err := json.Marshal(mailSendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: msg.ToEmail, Name: msg.ToName}}}},
		From:             emailAddress{Email: s.cfg.FromEmail, Name: s.cfg.FromName},
		Subject:          msg.Subject,
		Content:          contents,
	})
	if err != nil {
		return fmt.Errorf("sendgrid: failed to encode request: %w", err)
	}

	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		err := s.doOnce(ctx, body)
		if err == nil {
			return nil
		}

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) || !httpErr.retryable() || attempt >= s.cfg.MaxRetries {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.log.Warn("sendgrid request retrying",
			"attempt", attempt+1,
			"max_retries", s.cfg.MaxRetries,
			"sleep", backoff.String(),
			"error", err.Error(),
		)
		s.sleep(backoff)
		backoff *= 2
	}
}

func (s *SendGrid) doOnce(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	message := strings.TrimSpace(string(raw))
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && len(er.Errors) > 0 && er.Errors[0].Message != "" {
		message = er.Errors[0].Message
	}
	if message == "" {
		message = "<empty body>"
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: message}
}
