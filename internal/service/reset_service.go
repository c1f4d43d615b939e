package service

import (
	"context"
	"fmt"
	"strings"

	"codebox/internal/entity"
	"codebox/internal/repository"

	"github.com/sirupsen/logrus"
)

// ResetService drives OTP-based password resets. Callers are expected to have
// passed the verifyUser gate for the identifier.
type ResetService struct {
	users        repository.UserRepository
	sessions     *ResetSessions
	otp          OTPGenerator
	passwordHash PasswordHasher
	security     securityLogger
}

func NewResetService(
	users repository.UserRepository,
	sessions *ResetSessions,
	otp OTPGenerator,
	passwordHash PasswordHasher,
	securityLogs repository.SecurityLogRepository,
	logger logrus.FieldLogger,
) *ResetService {
	if logger == nil {
		logger = discardLogger()
	}
	return &ResetService{
		users:        users,
		sessions:     sessions,
		otp:          otp,
		passwordHash: passwordHash,
		security:     securityLogger{logs: securityLogs, logger: logger},
	}
}

func (s *ResetService) GenerateOTP(ctx context.Context, emailOrUsername string) (string, error) {
	user, err := s.activeUser(ctx, emailOrUsername)
	if err != nil {
		return "", err
	}
	code, err := s.otp.Generate()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	s.sessions.IssueOTP(user.ID, code)
	s.security.record(ctx, &user.ID, nil, entity.OTPIssued, nil)
	return code, nil
}

func (s *ResetService) VerifyOTP(ctx context.Context, emailOrUsername string, code string) error {
	user, err := s.activeUser(ctx, emailOrUsername)
	if err != nil {
		return err
	}
	if !s.sessions.VerifyOTP(user.ID, code) {
		s.security.record(ctx, &user.ID, nil, entity.OTPFailed, nil)
		return ErrInvalidOTP
	}
	s.security.record(ctx, &user.ID, nil, entity.OTPVerified, nil)
	return nil
}

// CreateResetSession reports whether the user holds an open reset session.
// Without an identifier it reports whether any reset session is open.
func (s *ResetService) CreateResetSession(ctx context.Context, emailOrUsername string) (bool, error) {
	if strings.TrimSpace(emailOrUsername) == "" {
		if !s.sessions.AnyActive() {
			return false, ErrSessionExpired
		}
		return true, nil
	}
	user, err := s.users.FindByIdentifier(ctx, emailOrUsername, false)
	if err != nil {
		return false, err
	}
	if user == nil || !s.sessions.SessionActive(user.ID) {
		return false, ErrSessionExpired
	}
	return true, nil
}

func (s *ResetService) ResetPassword(ctx context.Context, emailOrUsername string, password string) error {
	if !s.sessions.AnyActive() {
		return ErrSessionExpired
	}
	user, err := s.users.FindByIdentifier(ctx, emailOrUsername, false)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !s.sessions.SessionActive(user.ID) {
		return ErrSessionExpired
	}
	if password == "" {
		return ErrMissingPassword
	}

	hash, err := s.passwordHash.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.sessions.EndSession(user.ID)
	s.security.record(ctx, &user.ID, nil, entity.PasswordReset, nil)
	return nil
}

func (s *ResetService) activeUser(ctx context.Context, emailOrUsername string) (*entity.User, error) {
	if strings.TrimSpace(emailOrUsername) == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.users.FindByIdentifier(ctx, emailOrUsername, true)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
