package models

// GrowthStats represents the admin dashboard figures
type GrowthStats struct {
	TotalUsers             int `json:"totalUsers"`
	NewUsers               int `json:"newUsers"`
	NewUsersLastMonth      int `json:"newUsersLastMonth"`
	NewUsersGrowth         int `json:"newUsersGrowth"`
	ActiveUsers            int `json:"activeUsers"`
	ActiveUsersLastMonth   int `json:"activeUsersLastMonth"`
	ActiveUsersGrowth      int `json:"activeUsersGrowth"`
	InactiveUsers          int `json:"inactiveUsers"`
	InactiveUsersLastMonth int `json:"inactiveUsersLastMonth"`
	// InactiveUsersGrowth is not sign-flipped: a positive value is a regression.
	InactiveUsersGrowth int `json:"inactiveUsersGrowth"`
	// TotalVisits and CurrentOnline are simulated, not measured.
	TotalVisits   int `json:"totalVisits"`
	CurrentOnline int `json:"currentOnline"`
}

// PublicStats represents the landing page counters
type PublicStats struct {
	TotalStudents  int `json:"totalStudents"`
	ActiveLearners int `json:"activeLearners"`
	TotalVisits    int `json:"totalVisits"`
}
