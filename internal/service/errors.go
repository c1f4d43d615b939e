package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingID          = errors.New("id not provided")
	ErrMissingPassword    = errors.New("password is required")
	ErrDuplicateUsername  = errors.New("please use a unique username")
	ErrDuplicateEmail     = errors.New("please use a unique email")
	ErrInvalidCredentials = errors.New("password does not match")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrSnippetNotFound    = errors.New("code not found")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrSessionExpired     = errors.New("session expired")
	ErrProfileCleanup     = errors.New("previous profile image could not be removed")
	ErrMailNotConfigured  = errors.New("mail sender not configured")
)
