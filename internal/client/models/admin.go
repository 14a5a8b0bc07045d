package models

// AdminStats is the monitoring snapshot served by /admin/stats.
type AdminStats struct {
	TotalUsers     int            `json:"total_users"`
	TotalDiagrams  int            `json:"total_diagrams"`
	ProUsers       int            `json:"pro_users"`
	DiagramsByType map[string]int `json:"diagrams_by_type"`
	RecentActivity []Activity     `json:"recent_activity"`
}

// Activity is one recently created diagram in the admin feed.
type Activity struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Type      DiagramType `json:"type"`
	CreatedAt Timestamp   `json:"created_at"`
	UserEmail string      `json:"user_email"`
}
