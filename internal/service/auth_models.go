package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type EmailSender interface {
	SendRegistrationEmail(ctx context.Context, message RegistrationMail) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type AccessTokenIssuer interface {
	IssueAccessToken(user TokenSubject) (string, time.Duration, error)
}

type OTPGenerator interface {
	Generate() (string, error)
}

// ImageStore removes previously uploaded profile images.
type ImageStore interface {
	Delete(path string) error
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// PasswordCost matches the cost factor used for existing hashes.
const PasswordCost = 10

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = PasswordCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
