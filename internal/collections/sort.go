package collections

import (
	"sort"

	"sellerhub/internal/models"
)

// Sort orders supported for a collection's product listing.
const (
	SortManual      = "manual"
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortNameAsc     = "name_asc"
	SortNameDesc    = "name_desc"
	SortNewest      = "newest"
	SortOldest      = "oldest"
	SortBestSelling = "best_selling"
)

// ValidSortOrder reports whether order names a supported sort.
func ValidSortOrder(order string) bool {
	switch order {
	case SortManual, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc,
		SortNewest, SortOldest, SortBestSelling:
		return true
	}
	return false
}

// Sort returns the products in the requested order without mutating the
// input. Manual keeps the membership list's link order. The sort is stable:
// equal keys retain their relative input order.
//
// salesCount backs best_selling and is keyed by product ID hex; products
// missing from the map rank as zero. It is ignored for every other order.
func Sort(products []models.Product, order string, salesCount map[string]int64) []models.Product {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)

	switch order {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price < sorted[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price > sorted[j].Price
		})
	case SortNameAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})
	case SortNameDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Name > sorted[j].Name
		})
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
	case SortBestSelling:
		sort.SliceStable(sorted, func(i, j int) bool {
			return salesCount[sorted[i].ID.Hex()] > salesCount[sorted[j].ID.Hex()]
		})
	}

	// SortManual and anything unrecognized keep the input order.
	return sorted
}
