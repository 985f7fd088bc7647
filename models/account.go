package models

// MonthlySavings is one month's entry in an account snapshot, keyed by a
// "YYYY-MM" string in AccountSnapshot.MonthlyData.
type MonthlySavings struct {
	Savings           float64 `json:"savings"`
	MilestoneScore    int     `json:"milestone_score"`
	DonorContribution float64 `json:"donor_contribution,omitempty"`
}

// AccountSnapshot is the per-user financial state returned by GET /users/{id}.
// It is fetched fresh on every screen visit and never persisted.
type AccountSnapshot struct {
	FirstName       string                    `json:"first_name"`
	Surname         string                    `json:"surname"`
	TotalSavings    float64                   `json:"total_savings"`
	MonthlyData     map[string]MonthlySavings `json:"monthly_data"`
	ActivityPoints  int                       `json:"activity_points"`
	MilestoneScore  int                       `json:"milestone_score"`
	ComplianceScore string                    `json:"compliance_score"`
}

// SavingsOverview is returned by GET /users/{id}/savings.
type SavingsOverview struct {
	TotalSavings  float64 `json:"total_savings"`
	TargetSavings float64 `json:"target_savings"`
}

// Statement is one row of GET /users/{id}/savings/statements.
type Statement struct {
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Activity string  `json:"activity"`
}

// SavingsEntry is the payload for POST /users/{id}/savings.
type SavingsEntry struct {
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Activity string  `json:"activity"`
}

// ComplianceResponse is returned by GET /users/{id}/compliance. The score is
// the "achieved/total" string the dashboard parses defensively.
type ComplianceResponse struct {
	FirstName       string `json:"first_name"`
	Surname         string `json:"surname"`
	ComplianceScore string `json:"compliance_score"`
}

// MonthlyActivity is the payload for POST /users/{id}/activities.
type MonthlyActivity struct {
	Activity string `json:"activity"`
	Partner  string `json:"partner"`
	Month    int    `json:"month"`
}

// ActivityResponse is returned by POST /users/{id}/activities.
type ActivityResponse struct {
	Message         string `json:"message"`
	ActivityPoints  int    `json:"activity_points"`
	ComplianceScore string `json:"compliance_score"`
}

// DonorMonthly splits one month between the user's own savings and donor money.
type DonorMonthly struct {
	UserSavings       float64 `json:"user_savings"`
	DonorContribution float64 `json:"donor_contribution"`
}

// DonorSummary is one entry of GET /donor-view.
type DonorSummary struct {
	UserID                  string                  `json:"user_id"`
	FirstName               string                  `json:"first_name"`
	Surname                 string                  `json:"surname"`
	TotalSavings            float64                 `json:"total_savings"`
	TotalUserSavings        float64                 `json:"total_user_savings"`
	TotalDonorContributions float64                 `json:"total_donor_contributions"`
	MonthlyData             map[string]DonorMonthly `json:"monthly_data"`
}

// DonorView wraps the GET /donor-view response.
type DonorView struct {
	DonorView []DonorSummary `json:"donor_view"`
}
