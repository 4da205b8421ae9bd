package model

type AdminCounts struct {
	Total         int `json:"total"`
	Today         int `json:"today"`
	ThisWeek      int `json:"this_week"`
	PremiumActive int `json:"premium_active,omitempty"`
}

type AdminEvent struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	UserID    *int64         `json:"user_id"`
	Data      map[string]any `json:"data"`
	CreatedAt Timestamp      `json:"created_at"`
}

type AdminEventsToday struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
	Recent []AdminEvent   `json:"recent"`
}

type AdminUser struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	TotalExp    int       `json:"total_exp,omitempty"`
	IsPremium   bool      `json:"is_premium"`
	CreatedAt   Timestamp `json:"created_at,omitempty"`
}

type AdminStats struct {
	Timestamp     Timestamp        `json:"timestamp"`
	Users         AdminCounts      `json:"users"`
	Goals         AdminCounts      `json:"goals"`
	EventsToday   AdminEventsToday `json:"events_today"`
	TopUsers      []AdminUser      `json:"top_users"`
	RecentSignups []AdminUser      `json:"recent_signups"`
}
