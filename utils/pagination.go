package utils

// ClampPagination normalizes page/limit query values: page >= 1, limit
// clamped to [1,100], defaults page 1 / limit 10.
func ClampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
