package model

type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      int64   `json:"user_id"`
	Email       string  `json:"email"`
	TotalExp    int     `json:"total_exp"`
	IsPremium   bool    `json:"is_premium,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

type Leaderboard struct {
	Entries     []LeaderboardEntry `json:"leaderboard"`
	CurrentUser LeaderboardEntry   `json:"current_user"`
}

type ProgressionStats struct {
	Email                    string  `json:"email"`
	DisplayName              *string `json:"display_name"`
	ProfilePicture           *string `json:"profile_picture"`
	TotalExp                 int     `json:"total_exp"`
	LevelsCompleted          int     `json:"levels_completed"`
	GoalCompletionPercentage float64 `json:"goal_completion_percentage"`
}
