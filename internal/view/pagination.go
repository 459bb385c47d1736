package view

// PageSize is fixed for the historical table.
const PageSize = 10

// PageCount is ceil(n / PageSize).
func PageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// PageBounds returns the half-open row range [lo, hi) for a 1-based page.
// Out-of-range pages come back empty rather than erroring.
func PageBounds(n, page int) (lo, hi int) {
	if n <= 0 || page < 1 {
		return 0, 0
	}
	lo = (page - 1) * PageSize
	if lo >= n {
		return n, n
	}
	hi = lo + PageSize
	if hi > n {
		hi = n
	}
	return lo, hi
}

// ClampPage pins a requested page into [1, PageCount(n)] so navigation links
// stay valid; with no rows it returns 1.
func ClampPage(n, page int) int {
	count := PageCount(n)
	if count == 0 || page < 1 {
		return 1
	}
	if page > count {
		return count
	}
	return page
}

// Pages lists the 1-based page numbers, for rendering the pager.
func Pages(n int) []int {
	count := PageCount(n)
	out := make([]int, count)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
