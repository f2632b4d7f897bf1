package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/crbuilding/server/internal/config"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/internal/mailer"
)

var (
	// ErrUserExists is returned when registering an email already held by a
	// verified account.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for wrong email/password pairs. The
	// message deliberately does not reveal which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotVerified is returned when a password login hits an unverified account.
	ErrNotVerified = errors.New("account not verified")

	// ErrInvalidOrExpiredCode is returned for bad or stale verification
	// codes and tokens.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

	// ErrInvalidOTP is returned when a registration OTP fails to match.
	ErrInvalidOTP = errors.New("invalid otp")
)

// Service implements registration, verification and login flows.
type Service struct {
	repo   Repository
	mailer mailer.Mailer
	cfg    config.IdentityConfig
	now    func() time.Time
}

// NewService creates an identity service.
func NewService(repo Repository, m mailer.Mailer, cfg config.IdentityConfig) *Service {
	return &Service{
		repo:   repo,
		mailer: m,
		cfg:    cfg,
		now:    time.Now,
	}
}

// normalizeEmail lowercases and trims an email so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and sends the verification mail.
// A verified account under the same email rejects the registration; an
// unverified one is silently replaced so abandoned signups can retry.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	log := logger.FromContext(ctx)
	email = normalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing.Verified {
		return ErrUserExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("lookup existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	now := s.now()
	user := User{
		ID:                uuid.NewString(),
		Name:              name,
		Email:             email,
		PasswordHash:      string(hash),
		Verified:          false,
		OTP:               otp,
		OTPExpires:        now.Add(s.cfg.RegisterOTPTTL.Duration),
		VerificationToken: generateToken(),
		TokenExpires:      now.Add(s.cfg.VerifyTokenTTL.Duration),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		return fmt.Errorf("store user: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, email, name, user.VerificationToken, otp); err != nil {
		log.Error().Err(err).Str("email", logger.RedactEmail(email)).Msg("identity.register.mail_failed")
		return fmt.Errorf("send verification mail: %w", err)
	}

	log.Info().Str("email", logger.RedactEmail(email)).Msg("identity.register.success")
	return nil
}

// VerifyEmail marks an account verified via the emailed link token.
// The token is single-use; it is cleared on success.
func (s *Service) VerifyEmail(ctx context.Context, email, token string) error {
	email = normalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if user.VerificationToken == "" || user.VerificationToken != token {
		return ErrInvalidOrExpiredCode
	}
	// Strict expiry: a token is dead the moment now reaches the deadline.
	if !user.TokenExpires.After(s.now()) {
		return ErrInvalidOrExpiredCode
	}

	user.Verified = true
	user.VerificationToken = ""
	user.TokenExpires = time.Time{}
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("email", logger.RedactEmail(email)).
		Msg("identity.verify_email.success")
	return nil
}

// VerifyRegisterOTP marks an account verified via the emailed code.
// The code is single-use; it is cleared on success.
func (s *Service) VerifyRegisterOTP(ctx context.Context, email, otp string) error {
	email = normalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if user.OTP == "" || user.OTP != otp {
		return ErrInvalidOTP
	}
	if !user.OTPExpires.After(s.now()) {
		return ErrInvalidOTP
	}

	user.Verified = true
	user.OTP = ""
	user.OTPExpires = time.Time{}
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("email", logger.RedactEmail(email)).
		Msg("identity.verify_register_otp.success")
	return nil
}

// RequestLoginOTP issues a short-lived login code and mails it.
func (s *Service) RequestLoginOTP(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.Verified {
		return ErrNotVerified
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	user.OTP = otp
	user.OTPExpires = s.now().Add(s.cfg.LoginOTPTTL.Duration)
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("store login otp: %w", err)
	}

	if err := s.mailer.SendLoginOTP(ctx, email, otp); err != nil {
		log.Error().Err(err).Str("email", logger.RedactEmail(email)).Msg("identity.login_otp.mail_failed")
		return fmt.Errorf("send login otp: %w", err)
	}

	log.Info().Str("email", logger.RedactEmail(email)).Msg("identity.login_otp.sent")
	return nil
}

// VerifyOTP completes an OTP login. The code is single-use.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (SafeUser, error) {
	email = normalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return SafeUser{}, ErrInvalidOrExpiredCode
		}
		return SafeUser{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.OTP == "" || user.OTP != otp {
		return SafeUser{}, ErrInvalidOrExpiredCode
	}
	if !user.OTPExpires.After(s.now()) {
		return SafeUser{}, ErrInvalidOrExpiredCode
	}

	// A pending registration OTP submitted here still verifies the account,
	// matching how the storefront has always treated the two codes.
	user.Verified = true
	user.OTP = ""
	user.OTPExpires = time.Time{}
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		return SafeUser{}, fmt.Errorf("clear login otp: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("email", logger.RedactEmail(email)).
		Msg("identity.login_otp.success")
	return user.Sanitize(), nil
}

// LoginPassword authenticates with email and password. Unverified accounts
// are rejected before the password is checked so the client can prompt for
// verification instead of reporting bad credentials.
func (s *Service) LoginPassword(ctx context.Context, email, password string) (SafeUser, error) {
	email = normalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return SafeUser{}, ErrInvalidCredentials
		}
		return SafeUser{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.Verified {
		return SafeUser{}, ErrNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return SafeUser{}, ErrInvalidCredentials
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("email", logger.RedactEmail(email)).
		Msg("identity.login_password.success")
	return user.Sanitize(), nil
}
