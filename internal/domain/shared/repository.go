package shared

// Filter carries the list-query options shared by every repository:
// 1-based pagination, ordering, a free-text search term and per-module
// column filters keyed by snake_case field name.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
