package persistence

import (
	"github.com/bizsuite/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyPagination applies offset/limit from the filter with sane defaults.
// Page is 1-based; PageSize falls back to 20 and is capped at 100. The
// offset is computed from the clamped limit so an oversized page_size
// cannot skip rows between pages.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	return query.Offset(offset).Limit(limit)
}
