package models

// Stats is the dashboard summary served by GET /api/stats.
type Stats struct {
	TotalEvents    int `json:"totalEvents"`
	TotalAttendees int `json:"totalAttendees"`
	ThisMonth      int `json:"thisMonth"`
	Upcoming       int `json:"upcoming"`
}
