package dto

import (
	"time"

	"duzanda/internal/models"
)

type RegisterMasterRequest struct {
	Username string  `json:"username" binding:"required,min=3"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    string  `json:"phone" binding:"required"`
	Address  *string `json:"address"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PhoneLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type TokenResponse struct {
	AccessToken     string `json:"access_token"`
	AccessExpiresAt int64  `json:"access_expires_at"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Role:     string(u.Role),
		Phone:    u.Phone,
		Address:  u.Address,
	}
}

type LoginResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// PhoneLoginResponse: created=true означает, что аккаунт покупателя только
// что создан; сгенерированные логин и пароль возвращаются один раз.
type PhoneLoginResponse struct {
	User    UserResponse  `json:"user"`
	Tokens  TokenResponse `json:"tokens"`
	Created bool          `json:"created"`
}

type UpdateProfileRequest struct {
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func NewTokenResponse(token string, exp time.Time) TokenResponse {
	return TokenResponse{AccessToken: token, AccessExpiresAt: exp.Unix()}
}
