package dto

import (
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/domain/user"
	"skill-assess/internal/usecase"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionResponse struct {
	User             *UserResponse `json:"user,omitempty"`
	AccessToken      string        `json:"access_token"`
	AccessExpiresAt  time.Time     `json:"access_expires_at"`
	RefreshToken     string        `json:"refresh_token"`
	RefreshExpiresAt time.Time     `json:"refresh_expires_at"`
}

func NewSessionResponse(s usecase.Session, withUser bool) SessionResponse {
	out := SessionResponse{
		AccessToken:      s.Tokens.AccessToken,
		AccessExpiresAt:  s.Tokens.AccessExpiresAt,
		RefreshToken:     s.Tokens.RefreshToken,
		RefreshExpiresAt: s.Tokens.RefreshExpiresAt,
	}
	if withUser {
		out.User = &UserResponse{ID: s.User.ID, Email: s.User.Email, Role: s.User.Role, CreatedAt: s.User.CreatedAt}
	}
	return out
}
