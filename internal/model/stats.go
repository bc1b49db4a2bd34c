package model

// Overview is the dashboard summary record: eight named counts over the
// marketplace collections. Counts are zero-filled when their query fails.
type Overview struct {
	TotalUsers           int `json:"total_users"`
	ActiveListings       int `json:"active_listings"`
	TotalInquiries       int `json:"total_inquiries"`
	PendingAppointments  int `json:"pending_appointments"`
	TotalOrders          int `json:"total_orders"`
	NewUsersThisMonth    int `json:"new_users_this_month"`
	NewListingsThisMonth int `json:"new_listings_this_month"`
	NewOrdersThisMonth   int `json:"new_orders_this_month"`
}

// MonthBucket is one point of the trailing monthly series.
type MonthBucket struct {
	Label    string  `json:"label"`
	Users    int     `json:"users"`
	Listings int     `json:"listings"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
}
