// Package mail delivers transactional email such as signup verification codes.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/skill-passport/internal/logger"
)

// Message is one outbound email.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// OTPMessage builds the verification email for a signup code.
func OTPMessage(toEmail, toName, code string, ttl time.Duration) Message {
	greeting := "Hi"
	if name := strings.TrimSpace(toName); name != "" {
		greeting = "Hi " + name
	}
	minutes := int(ttl.Round(time.Minute) / time.Minute)

	text := fmt.Sprintf("%s,\n\nYour Skill Passport verification code is %s.\nIt expires in %d minutes.\n\nIf you did not sign up, you can ignore this email.\n",
		greeting, code, minutes)
	html := fmt.Sprintf("<p>%s,</p><p>Your Skill Passport verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p><p>If you did not sign up, you can ignore this email.</p>",
		htmlEscape(greeting), code, minutes)

	return Message{
		ToEmail: toEmail,
		ToName:  toName,
		Subject: "Your Skill Passport verification code",
		Text:    text,
		HTML:    html,
	}
}

func htmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;").Replace(s)
}

// LogSender writes messages to the log instead of sending them. Used for local development.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.With("client", "LogSender")}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return fmt.Errorf("mail: recipient required")
	}
	s.log.Info("email not sent (no mail provider configured)",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}
