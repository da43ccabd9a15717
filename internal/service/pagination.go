package service

import "github.com/adityawrmn/campus-eval-api/internal/models"

type pageBounds struct {
	start int
	end   int
}

// paginate clamps page/size defaults and returns the slice bounds for an
// in-memory listing alongside the response metadata.
func paginate(total, page, size int) (pageBounds, *models.Pagination) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return pageBounds{start: start, end: end}, &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
