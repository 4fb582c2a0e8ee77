package handlers

import (
	"fmt"
	"strconv"
)

// paginationRequested reports whether the caller asked for a paginated
// response; routes with optional pagination return the full list otherwise.
func paginationRequested(pageStr, limitStr string) bool {
	return pageStr != "" || limitStr != ""
}

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page parameter")
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit parameter")
		}
		limit = l
	}

	return page, limit, nil
}
