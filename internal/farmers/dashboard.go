package farmers

import (
	"github.com/milletmart/catalog-server/internal/catalog"
)

// Dashboard summarizes a farmer's sales and listings
type Dashboard struct {
	Farmer         User              `json:"farmer"`
	TotalEarnings  float64           `json:"totalEarnings"`
	TotalOrders    int               `json:"totalOrders"`
	Rating         float64           `json:"rating"`
	OrdersByStatus map[string]int    `json:"ordersByStatus"`
	ActiveListings []catalog.Product `json:"activeListings"`
	Transactions   []Transaction     `json:"transactions"`
}

// BuildDashboard assembles the dashboard for farmer from the directory and catalog.
// Earnings come from the farmer's recorded total sales; listings are the
// catalog products whose farmer name matches.
func BuildDashboard(farmer User, dir *Directory, cat *catalog.Catalog) Dashboard {
	transactions := dir.TransactionsFor(farmer.ID)

	byStatus := make(map[string]int)
	for _, t := range transactions {
		byStatus[t.Status]++
	}

	listings := []catalog.Product{}
	if cat != nil {
		listings = cat.ByFarmer(farmer.Name)
	}

	return Dashboard{
		Farmer:         farmer,
		TotalEarnings:  farmer.TotalSales,
		TotalOrders:    len(transactions),
		Rating:         farmer.Rating,
		OrdersByStatus: byStatus,
		ActiveListings: listings,
		Transactions:   transactions,
	}
}
