package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codebox/internal/entity"
	"codebox/internal/repository"

	"github.com/sirupsen/logrus"
)

// dummyPasswordHash keeps login timing similar for unknown users.
const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type UserService struct {
	users        repository.UserRepository
	security     securityLogger
	passwordHash PasswordHasher
	accessTokens AccessTokenIssuer
	images       ImageStore
	emailSender  EmailSender
	logger       logrus.FieldLogger
}

func NewUserService(
	users repository.UserRepository,
	securityLogs repository.SecurityLogRepository,
	passwordHash PasswordHasher,
	accessTokens AccessTokenIssuer,
	images ImageStore,
	emailSender EmailSender,
	logger logrus.FieldLogger,
) *UserService {
	if logger == nil {
		logger = discardLogger()
	}
	return &UserService{
		users:        users,
		security:     securityLogger{logs: securityLogs, logger: logger},
		passwordHash: passwordHash,
		accessTokens: accessTokens,
		images:       images,
		emailSender:  emailSender,
		logger:       logger,
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	user, err := s.register(ctx, input)
	if err != nil && input.ProfilePath != "" {
		s.discardImage(input.ProfilePath)
	}
	return user, err
}

func (s *UserService) register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if strings.TrimSpace(input.Username) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("find by username: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}
	existing, err = s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("find by email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	if input.Password == "" {
		return nil, ErrMissingPassword
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		MobileNumber: input.MobileNumber,
		Profile:      input.ProfilePath,
		Role:         entity.UserRoleUser,
		IsDeleted:    false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapUniqueError(err)
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByIdentifier(ctx, input.EmailOrUsername, true)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.security.record(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"identifier": input.EmailOrUsername})
		return nil, ErrUserNotFound
	}
	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		s.security.record(ctx, &user.ID, input.IPAddress, entity.LoginFailed, nil)
		return nil, ErrInvalidCredentials
	}

	token, expiresIn, err := s.accessTokens.IssueAccessToken(TokenSubjectFromUser(user))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.security.record(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, nil)

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(expiresIn.Seconds()),
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
	}, nil
}

// FindActiveUser resolves an email or username to a non-deleted user.
func (s *UserService) FindActiveUser(ctx context.Context, emailOrUsername string) (*entity.User, error) {
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

func (s *UserService) GetUser(ctx context.Context, emailOrUsername string) (*entity.User, error) {
	if strings.TrimSpace(emailOrUsername) == "" {
		return nil, ErrInvalidInput
	}
	return s.FindActiveUser(ctx, emailOrUsername)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, activeOnly bool) ([]entity.User, error) {
	return s.users.List(ctx, !activeOnly)
}

func (s *UserService) CountUsers(ctx context.Context, activeOnly bool) (int64, error) {
	return s.users.Count(ctx, !activeOnly)
}

func (s *UserService) SoftDeleteUser(ctx context.Context, id string) (*entity.User, error) {
	return s.setDeleted(ctx, id, true, entity.UserDeleted)
}

func (s *UserService) RevertUser(ctx context.Context, id string) (*entity.User, error) {
	return s.setDeleted(ctx, id, false, entity.UserReverted)
}

func (s *UserService) setDeleted(ctx context.Context, id string, deleted bool, action entity.SecurityAction) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}
	user, err := s.users.SetDeleted(ctx, id, deleted)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	s.security.record(ctx, &user.ID, nil, action, nil)
	return user, nil
}

// UpdateUser applies a whitelisted partial update. When newProfilePath is set
// the previous image is removed first; a failed removal is logged and the
// update still goes ahead. The new upload is discarded if the update fails.
func (s *UserService) UpdateUser(ctx context.Context, id string, update entity.UserUpdate, newProfilePath string) (*entity.User, error) {
	user, err := s.updateUser(ctx, id, update, newProfilePath)
	if err != nil && newProfilePath != "" {
		s.discardImage(newProfilePath)
	}
	return user, err
}

func (s *UserService) updateUser(ctx context.Context, id string, update entity.UserUpdate, newProfilePath string) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}

	if newProfilePath != "" {
		current, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrUserNotFound
		}
		if current.Profile != "" && current.Profile != newProfilePath {
			if err := s.removeImage(current.Profile); err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"user_id": id,
					"path":    current.Profile,
				}).Warn("profile image cleanup failed")
			}
		}
		update.Profile = &newProfilePath
	}

	if err := s.users.Update(ctx, id, update); err != nil {
		return nil, mapUniqueError(err)
	}

	updated, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

func (s *UserService) SendRegistrationMail(ctx context.Context, message RegistrationMail) error {
	if s.emailSender == nil {
		return ErrMailNotConfigured
	}
	if strings.TrimSpace(message.To) == "" {
		return ErrInvalidInput
	}
	return s.emailSender.SendRegistrationEmail(ctx, message)
}

func (s *UserService) removeImage(path string) error {
	if s.images == nil {
		return nil
	}
	if err := s.images.Delete(path); err != nil {
		return fmt.Errorf("%w: %w", ErrProfileCleanup, err)
	}
	return nil
}

func (s *UserService) discardImage(path string) {
	if err := s.removeImage(path); err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("discard uploaded image")
	}
}

func mapUniqueError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrDuplicateUsername
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrDuplicateEmail
	}
	return err
}
