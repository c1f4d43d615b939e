package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"codebox/internal/repository/memory"
	"codebox/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var errDiskFailure = errors.New("disk failure")

type fakeImageStore struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeImageStore) Delete(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	return f.err
}

type recordingMailer struct {
	sent []RegistrationMail
}

func (m *recordingMailer) SendRegistrationEmail(_ context.Context, message RegistrationMail) error {
	m.sent = append(m.sent, message)
	return nil
}

type sequenceOTP struct {
	codes []string
}

func (s *sequenceOTP) Generate() (string, error) {
	if len(s.codes) == 0 {
		return "", errors.New("no codes left")
	}
	code := s.codes[0]
	s.codes = s.codes[1:]
	return code, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testHasher() BcryptPasswordHasher {
	return BcryptPasswordHasher{Cost: bcrypt.MinCost}
}

func testJWT() *utils.JWTManager {
	return &utils.JWTManager{Secret: []byte("test-secret"), Issuer: "codebox", AccessTokenTTL: time.Hour}
}

type userFixture struct {
	service *UserService
	users   *memory.UserRepository
	logs    *memory.SecurityLogRepository
	images  *fakeImageStore
	mailer  *recordingMailer
	jwt     *utils.JWTManager
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		users:  memory.NewUserRepository(),
		logs:   memory.NewSecurityLogRepository(),
		images: &fakeImageStore{},
		mailer: &recordingMailer{},
		jwt:    testJWT(),
	}
	f.service = NewUserService(f.users, f.logs, testHasher(), JWTAccessIssuer{Manager: f.jwt}, f.images, f.mailer, nil)
	return f
}

func (f *userFixture) register(t *testing.T, username, email, password string) string {
	t.Helper()
	user, err := f.service.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user.ID
}
