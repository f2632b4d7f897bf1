package mailer

import "context"

// Mailer sends account verification and login mail.
type Mailer interface {
	// SendVerification sends the signup mail carrying both the link token
	// and the fallback OTP code.
	SendVerification(ctx context.Context, to, name, token, otp string) error

	// SendLoginOTP sends a short-lived login code.
	SendLoginOTP(ctx context.Context, to, otp string) error
}

// NoopMailer discards all mail. Used in tests and when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) SendVerification(context.Context, string, string, string, string) error {
	return nil
}

func (NoopMailer) SendLoginOTP(context.Context, string, string) error {
	return nil
}
