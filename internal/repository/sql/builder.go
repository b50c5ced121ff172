package sql

import (
	"fmt"
	"strings"

	"github.com/nutrikeep/product-db/internal/repository"
)

// productQueryKind selects which aggregate a product query runs against.
// Product requests carry a submission date, catalog products do not; the
// set of valid sort fields differs accordingly.
type productQueryKind int

const (
	catalogProducts productQueryKind = iota
	productRequests
)

// The two logical projections of a product description. Preview columns are
// only part of the statement when the caller asked for them; the choice is
// made by a boolean, never by client-supplied text.
const (
	descriptionColumns = "product_id, name, producer, quantity_type, portion, volume_weight_ratio, " +
		"kcal, protein_grams, fat_grams, carbohydrates_grams, sugar_grams, salt_grams, " +
		"vitamin_a_mg, vitamin_c_mg, vitamin_d_mug, iron_mg, calcium_mg, magnesium_mg, sodium_mg, zinc_mg"
	previewColumns = ", preview, preview_content_type"
)

// Allow-lists mapping sort fields to column names. Only these fragments are
// ever concatenated into a statement; the user-facing field names never are.
var (
	catalogSortColumns = map[repository.SortingField]string{
		repository.SortByName:      "name",
		repository.SortByProductID: "product_id",
	}

	requestSortColumns = map[repository.SortingField]string{
		repository.SortByName:         "name",
		repository.SortByProductID:    "product_id",
		repository.SortByReportedDate: "date",
	}
)

func sqlDirection(order repository.SortingOrder) string {
	if order == repository.Descending {
		return "DESC"
	}
	return "ASC"
}

func sortColumns(kind productQueryKind) map[repository.SortingField]string {
	if kind == productRequests {
		return requestSortColumns
	}
	return catalogSortColumns
}

func queryView(kind productQueryKind, withPreview bool) string {
	if kind == productRequests {
		if withPreview {
			return "requested_products_full_with_preview"
		}
		return "requested_products_full"
	}
	if withPreview {
		return "products_full_with_preview"
	}
	return "products_full"
}

// buildProductQuery assembles a single parameterized SELECT for a product
// query. All data values are bound as parameters; an invalid sorting request
// fails here, before any SQL is issued.
func buildProductQuery(q repository.ProductQuery, kind productQueryKind, withPreview bool) (string, []any, error) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	if kind == productRequests {
		b.WriteString("r_id, date, ")
	}
	b.WriteString(descriptionColumns)
	if withPreview {
		b.WriteString(previewColumns)
	}
	b.WriteString(" FROM ")
	b.WriteString(queryView(kind, withPreview))

	var searchTerm string
	switch {
	case q.Filter.ProductID != nil:
		args = append(args, *q.Filter.ProductID)
		fmt.Fprintf(&b, " WHERE product_id = $%d", len(args))
	case q.Filter.Search != nil:
		searchTerm = strings.ToLower(*q.Filter.Search)
		args = append(args, "%"+searchTerm+"%")
		fmt.Fprintf(&b, " WHERE name_producer LIKE $%d", len(args))
	}

	if q.Sorting != nil {
		dir := sqlDirection(q.Sorting.Order)
		if q.Sorting.Field == repository.SortBySimilarity {
			// Similarity ranks against the search term; without one there is
			// nothing to rank against.
			if q.Filter.Search == nil {
				return "", nil, &repository.InvalidSortingError{Field: repository.SortBySimilarity}
			}
			args = append(args, searchTerm)
			fmt.Fprintf(&b, " ORDER BY similarity(name_producer, $%d) %s", len(args), dir)
		} else {
			column, ok := sortColumns(kind)[q.Sorting.Field]
			if !ok {
				return "", nil, &repository.InvalidSortingError{Field: q.Sorting.Field}
			}
			fmt.Fprintf(&b, " ORDER BY %s %s", column, dir)
		}
	}

	args = append(args, q.Offset)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))
	args = append(args, repository.ClampLimit(q.Limit))
	fmt.Fprintf(&b, " LIMIT $%d", len(args))

	return b.String(), args, nil
}

// buildMissingProductsQuery assembles the SELECT for a missing-product
// report query. Reports only sort by date.
func buildMissingProductsQuery(q repository.MissingProductQuery) (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT id, product_id, date FROM reported_missing_products")
	if q.ProductID != nil {
		args = append(args, *q.ProductID)
		fmt.Fprintf(&b, " WHERE product_id = $%d", len(args))
	}

	b.WriteString(" ORDER BY date ")
	b.WriteString(sqlDirection(q.Order))

	args = append(args, q.Offset)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))
	args = append(args, repository.ClampLimit(q.Limit))
	fmt.Fprintf(&b, " LIMIT $%d", len(args))

	return b.String(), args
}

// buildGetProductQuery returns the statement fetching one catalog product by
// its natural key.
func buildGetProductQuery(withPreview bool) string {
	columns := descriptionColumns
	if withPreview {
		columns += previewColumns
	}
	return "SELECT " + columns + " FROM " + queryView(catalogProducts, withPreview) + " WHERE product_id = $1"
}

// buildGetProductRequestQuery returns the statement fetching one product
// request by its surrogate id.
func buildGetProductRequestQuery(withPreview bool) string {
	columns := "r_id, date, " + descriptionColumns
	if withPreview {
		columns += previewColumns
	}
	return "SELECT " + columns + " FROM " + queryView(productRequests, withPreview) + " WHERE r_id = $1"
}
