package dto

import (
	"time"

	"libraryhub/internal/api/models"
)

// MemberResponse is the public view of a user account.
type MemberResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func FromUserModel(u models.User) MemberResponse {
	return MemberResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func FromUserModels(users []models.User) []MemberResponse {
	out := make([]MemberResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUserModel(u))
	}
	return out
}
