package collections

import (
	"math"

	"sellerhub/internal/models"
)

// Page is one window over a sorted membership set.
type Page struct {
	Items      []models.Product `json:"items"`
	Page       int64            `json:"page"`
	PageSize   int64            `json:"pageSize"`
	Total      int64            `json:"total"`
	TotalPages int64            `json:"totalPages"`
}

// Paginate slices the product list. Pages are 1-indexed and TotalPages is at
// least 1 even for an empty set. A page past the end (or below 1) returns
// empty items rather than an error; the caller owns any UI bounds guard.
func Paginate(products []models.Product, page, pageSize int64) Page {
	if pageSize < 1 {
		pageSize = 1
	}

	total := int64(len(products))
	totalPages := int64(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	// Bounding page by totalPages before computing the offset keeps the
	// multiplication from overflowing on absurd page numbers.
	items := make([]models.Product, 0)
	if page >= 1 && page <= totalPages {
		start := (page - 1) * pageSize
		if start < total {
			end := start + pageSize
			if end > total {
				end = total
			}
			items = append(items, products[start:end]...)
		}
	}

	return Page{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
