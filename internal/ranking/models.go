package ranking

import "github.com/google/uuid"

type RankEntry struct {
	Rank    int       `json:"rank"`
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	Minutes int       `json:"minutes"`
}

// UserRank is the caller's standing; a nil rank means not ranked
type UserRank struct {
	UserID         uuid.UUID `json:"user_id"`
	MonthlyMinutes int       `json:"monthly_minutes"`
	MonthlyRank    *int      `json:"monthly_rank"`
	TotalMinutes   int       `json:"total_minutes"`
	TotalRank      *int      `json:"total_rank"`
}
