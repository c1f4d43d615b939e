package service

import "codebox/internal/entity"

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	FirstName    string
	LastName     string
	MobileNumber string
	ProfilePath  string
}

type LoginInput struct {
	EmailOrUsername string
	Password        string
	IPAddress       *string
}

type LoginResult struct {
	Token     string
	ExpiresIn int64
	Email     string
	Username  string
	Role      entity.UserRole
}

// TokenSubject is the identity embedded in access tokens.
type TokenSubject struct {
	UserID   string
	Email    string
	Username string
	Role     string
}

func TokenSubjectFromUser(user *entity.User) TokenSubject {
	return TokenSubject{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
	}
}

type RegistrationMail struct {
	Username string
	To       string
	Subject  string
	Text     string
}

type CreateSnippetInput struct {
	OwnerUserID   string
	OwnerUsername string
	Code          string
	CodeLanguage  string
	Title         string
	Description   string
}

type SnippetGroup struct {
	Username string
	Snippets []entity.Snippet
}
