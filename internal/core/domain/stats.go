package domain

// CollectionSizes holds the raw record count of each collection.
type CollectionSizes struct {
	Users    int64 `json:"users"`
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  float64         `json:"total_revenue"`
	Collections   CollectionSizes `json:"stats"`
}
