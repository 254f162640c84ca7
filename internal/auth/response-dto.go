package auth

import (
	"time"

	"studyhall/internal/users"
)

// represents the authentication response
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// represents user data in responses (without sensitive info)
type UserResponse struct {
	ID                  string    `json:"id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	Status              string    `json:"status"`
	MonthlyStudyMinutes int       `json:"monthly_study_minutes"`
	TotalStudyMinutes   int       `json:"total_study_minutes"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toUserResponse(u *users.User) UserResponse {
	return UserResponse{
		ID:                  u.ID.String(),
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Email:               u.Email,
		Role:                string(u.Role),
		Status:              string(u.Status),
		MonthlyStudyMinutes: u.MonthlyStudyMinutes,
		TotalStudyMinutes:   u.TotalStudyMinutes,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}
