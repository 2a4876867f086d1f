package entity

// MonthlyRevenue is one row of the purchase rollup.
type MonthlyRevenue struct {
	Month string  `json:"_id"`
	Total float64 `json:"total"`
}

// DashboardSummary carries the admin overview counters.
type DashboardSummary struct {
	Users    int64 `json:"users"`
	Students int64 `json:"students"`
	Tutors   int64 `json:"tutors"`
	Courses  int64 `json:"courses"`
}

// Revenue shares applied to purchase prices.
const (
	PlatformShare = 0.05
	TutorShare    = 0.95
)
