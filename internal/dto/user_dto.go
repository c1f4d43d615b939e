package dto

import (
	"time"

	"codebox/internal/entity"
)

type RegisterRequest struct {
	Username     string `json:"username" form:"username" validate:"required,max=100"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	Password     string `json:"password" form:"password"`
	FirstName    string `json:"firstName" form:"firstName" validate:"omitempty,max=100"`
	LastName     string `json:"lastName" form:"lastName" validate:"omitempty,max=100"`
	MobileNumber string `json:"mobileNumber" form:"mobileNumber" validate:"omitempty,max=32"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

type ResetPasswordRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password"`
}

// UpdateUserRequest is the whitelist of profile fields accepted by
// /updateUser.
type UpdateUserRequest struct {
	FirstName    *string `json:"firstName" validate:"omitempty,max=100"`
	LastName     *string `json:"lastName" validate:"omitempty,max=100"`
	MobileNumber *string `json:"mobileNumber" validate:"omitempty,max=32"`
	Email        *string `json:"email" validate:"omitempty,email"`
}

func (r UpdateUserRequest) ToEntity() entity.UserUpdate {
	return entity.UserUpdate{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		MobileNumber: r.MobileNumber,
		Email:        r.Email,
	}
}

type RegisterMailRequest struct {
	Username  string `json:"username" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,email"`
	Text      string `json:"text"`
	Subject   string `json:"subject"`
}

type UserResponse struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	Profile      string    `json:"profile"`
	Role         string    `json:"role"`
	IsDeleted    bool      `json:"isDeleted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		MobileNumber: user.MobileNumber,
		Profile:      user.Profile,
		Role:         string(user.Role),
		IsDeleted:    user.IsDeleted,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}
