package repository

import "github.com/nutrikeep/product-db/internal/model"

const (
	// DefaultQueryLimit is used when a query does not request a limit.
	DefaultQueryLimit = 10

	// MaxQueryLimit caps the number of rows a single query may return,
	// regardless of the client-supplied limit.
	MaxQueryLimit = 100
)

// SortingOrder is the direction of a sort.
type SortingOrder string

const (
	Ascending  SortingOrder = "asc"
	Descending SortingOrder = "desc"
)

// SortingField names the attribute a product query is sorted by.
type SortingField string

const (
	SortByName         SortingField = "name"
	SortByProductID    SortingField = "product_id"
	SortByReportedDate SortingField = "reported_date"
	SortBySimilarity   SortingField = "similarity"
)

// Sorting combines a sort field with a direction.
type Sorting struct {
	Field SortingField
	Order SortingOrder
}

// SearchFilter restricts a product query. At most one of the fields is set;
// the zero value matches everything. ProductID takes precedence over Search
// if both are set.
type SearchFilter struct {
	// ProductID filters by exact natural-key match.
	ProductID *model.ProductID

	// Search filters by a case-insensitive substring match across the
	// product name and producer.
	Search *string
}

// FilterByProductID returns a filter matching one product id exactly.
func FilterByProductID(id model.ProductID) SearchFilter {
	return SearchFilter{ProductID: &id}
}

// FilterBySearch returns a free-text search filter.
func FilterBySearch(term string) SearchFilter {
	return SearchFilter{Search: &term}
}

// ProductQuery describes a query over catalog products or product requests.
type ProductQuery struct {
	Filter  SearchFilter
	Sorting *Sorting
	Offset  int64
	Limit   int64
}

// MissingProductQuery describes a query over missing-product reports,
// sorted by report date.
type MissingProductQuery struct {
	// ProductID, if set, restricts the result to reports for that id.
	ProductID *model.ProductID

	Order  SortingOrder
	Offset int64
	Limit  int64
}

// ClampLimit bounds a client-supplied limit to [1, MaxQueryLimit], falling
// back to DefaultQueryLimit when none was requested.
func ClampLimit(limit int64) int64 {
	if limit <= 0 {
		return DefaultQueryLimit
	}
	return min(limit, MaxQueryLimit)
}
