package mailer

import (
	"context"
	"fmt"
	"net/url"

	gomail "gopkg.in/gomail.v2"

	"github.com/crbuilding/server/internal/circuitbreaker"
	"github.com/crbuilding/server/internal/config"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/internal/metrics"
)

// SMTPMailer sends mail through an SMTP relay with circuit breaking.
type SMTPMailer struct {
	cfg      config.MailConfig
	dialer   *gomail.Dialer
	breakers *circuitbreaker.Manager
	metrics  *metrics.Metrics
}

// NewSMTPMailer creates an SMTP-backed mailer. breakers and m may be nil.
func NewSMTPMailer(cfg config.MailConfig, breakers *circuitbreaker.Manager, m *metrics.Metrics) *SMTPMailer {
	return &SMTPMailer{
		cfg:      cfg,
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		breakers: breakers,
		metrics:  m,
	}
}

// SendVerification sends the signup mail with link token and OTP fallback.
func (s *SMTPMailer) SendVerification(ctx context.Context, to, name, token, otp string) error {
	link := fmt.Sprintf("%s/api/verify-email?token=%s&email=%s",
		s.cfg.VerifyBaseURL, url.QueryEscape(token), url.QueryEscape(to))

	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Welcome to C&R Building Solutions. Please verify your email address.\n\n"+
			"Click the link below to verify:\n%s\n\n"+
			"Or enter this code on the verification page: %s\n\n"+
			"The code expires in 10 minutes, the link in 24 hours.\n",
		name, link, otp)

	return s.send(ctx, "verification", to, "Verify your email", body)
}

// SendLoginOTP sends a short-lived login code.
func (s *SMTPMailer) SendLoginOTP(ctx context.Context, to, otp string) error {
	body := fmt.Sprintf(
		"Your login code is: %s\n\n"+
			"It expires in 5 minutes. If you did not request this, ignore this mail.\n",
		otp)

	return s.send(ctx, "login_otp", to, "Your login code", body)
}

func (s *SMTPMailer) send(ctx context.Context, kind, to, subject, body string) error {
	log := logger.FromContext(ctx)

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	_, err := s.breakers.Execute(circuitbreaker.ServiceMail, func() (interface{}, error) {
		return nil, s.dialer.DialAndSend(msg)
	})
	if err != nil {
		s.metrics.ObserveMailSend(kind, "failure")
		log.Error().Err(err).
			Str("kind", kind).
			Str("to", logger.RedactEmail(to)).
			Msg("mailer.send.failed")
		return fmt.Errorf("send %s mail: %w", kind, err)
	}

	s.metrics.ObserveMailSend(kind, "success")
	log.Info().
		Str("kind", kind).
		Str("to", logger.RedactEmail(to)).
		Msg("mailer.send.success")
	return nil
}
