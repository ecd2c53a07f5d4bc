package domain

// PackageRevenue aggregates paid purchases for one package type.
type PackageRevenue struct {
	Package string `json:"package"`
	Count   int64  `json:"count"`
	Revenue int64  `json:"revenue"`
}

// CountryRevenue aggregates paid purchases by buyer country.
type CountryRevenue struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
	Revenue int64  `json:"revenue"`
}

// DailyCount is one day's worth of new user signups.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AdminStats is the read-only aggregate served to the admin dashboard.
type AdminStats struct {
	TotalUsers         int64            `json:"total_users"`
	TotalChatTurns     int64            `json:"total_chat_turns"`
	TotalRevenue       int64            `json:"total_revenue"`
	PendingRevenue     int64            `json:"pending_revenue"`
	TotalPurchases     int64            `json:"total_purchases"`
	RevenueByPackage   []PackageRevenue `json:"revenue_by_package"`
	RevenueByCountry   []CountryRevenue `json:"revenue_by_country"`
	NewUsersByDay      []DailyCount     `json:"new_users_by_day"`
	TotalFreeUsed      int64            `json:"total_free_used"`
	TotalPaidRemaining int64            `json:"total_paid_remaining"`
}
