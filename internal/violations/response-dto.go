package violations

import "github.com/google/uuid"

type ViolationListResponse struct {
	Violations []Violation `json:"violations"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// SummaryResponse is a user's standing against the suspension threshold
type SummaryResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	TotalPoints int       `json:"total_points"`
	Limit       int       `json:"limit"`
	Remaining   int       `json:"remaining"`
}
