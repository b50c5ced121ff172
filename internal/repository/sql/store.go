package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nutrikeep/product-db/internal/model"
	"github.com/nutrikeep/product-db/internal/repository"
)

// Store implements the repository.Backend interface against a Postgres
// connection pool. It is stateless apart from the pool and safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store instance on top of an open connection pool.
func NewStore(db *sql.DB) repository.Backend {
	return &Store{db: db}
}

func dbErr(format string, err error) *repository.DBError {
	return &repository.DBError{Err: fmt.Errorf(format, err)}
}

// ReportMissingProduct stores a missing-product report and returns its
// surrogate id.
func (s *Store) ReportMissingProduct(ctx context.Context, report model.MissingProduct) (model.DBId, error) {
	slog.Info("reporting missing product",
		slog.String("product_id", report.ProductID),
		slog.Time("date", report.Date),
	)

	query := `INSERT INTO reported_missing_products (product_id, date) VALUES ($1, $2) RETURNING id`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return 0, dbErr("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var id model.DBId
	if err := stmt.QueryRowContext(ctx, report.ProductID, report.Date).Scan(&id); err != nil {
		return 0, dbErr("failed to report missing product: %w", err)
	}

	return id, nil
}

// GetMissingProduct returns the report with the given surrogate id, or nil
// if no such report exists.
func (s *Store) GetMissingProduct(ctx context.Context, id model.DBId) (*model.MissingProduct, error) {
	query := `SELECT product_id, date FROM reported_missing_products WHERE id = $1`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, dbErr("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var report model.MissingProduct
	err = stmt.QueryRowContext(ctx, id).Scan(&report.ProductID, &report.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr("failed to get missing product: %w", err)
	}

	return &report, nil
}

// QueryMissingProducts returns the reports matching the query, ordered by
// report date.
func (s *Store) QueryMissingProducts(ctx context.Context, query repository.MissingProductQuery) ([]repository.ReportedMissingProduct, error) {
	statement, args := buildMissingProductsQuery(query)

	stmt, err := s.db.PrepareContext(ctx, statement)
	if err != nil {
		return nil, dbErr("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, dbErr("failed to query missing products: %w", err)
	}
	defer rows.Close()

	var reports []repository.ReportedMissingProduct
	for rows.Next() {
		var report repository.ReportedMissingProduct
		if err := rows.Scan(&report.ID, &report.Report.ProductID, &report.Report.Date); err != nil {
			return nil, dbErr("failed to scan missing product: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, dbErr("error iterating rows: %w", err)
	}

	return reports, nil
}

// DeleteReportedMissingProduct deletes a report by surrogate id. Deleting an
// unknown id is a no-op.
func (s *Store) DeleteReportedMissingProduct(ctx context.Context, id model.DBId) error {
	slog.Info("deleting reported missing product", slog.Int64("id", id))

	query := `DELETE FROM reported_missing_products WHERE id = $1`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return dbErr("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return dbErr("failed to delete reported missing product: %w", err)
	}

	return nil
}

// RequestNewProduct stores a pending product submission and returns its
// surrogate id. The description aggregate is decomposed into its rows
// first, then linked from the request row.
func (s *Store) RequestNewProduct(ctx context.Context, request model.ProductRequest) (model.DBId, error) {
	slog.Info("requesting new product",
		slog.String("product_id", request.Description.Info.ID),
		slog.String("name", request.Description.Info.Name),
	)

	descID, err := s.createProductDescription(ctx, request.Description)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO requested_products (product_description_id, date) VALUES ($1, $2) RETURNING id`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return 0, dbErr("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var id model.DBId
	if err := stmt.QueryRowContext(ctx, descID, request.Date).Scan(&id); err != nil {
		return 0, dbErr("failed to request new product: %w", err)
	}

	return id, nil
}

// GetProductRequest returns the request with the given surrogate id, or nil
// if no such request exists. The preview image is only decoded when asked for.
func (s *Store) GetProductRequest(ctx context.Context, id model.DBId, withPreview bool) (*model.ProductRequest, error) {
	stmt, err := s.db.PrepareContext(ctx, buildGetProductRequestQuery(withPreview))
	if err != nil {
		return nil, dbErr("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	requested, err := scanRequestedProduct(stmt.QueryRowContext(ctx, id), withPreview)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		var serErr *repository.SerializationError
		if errors.As(err, &serErr) {
			return nil, err
		}
		return nil, dbErr("failed to get product request: %w", err)
	}

	return &requested.Request, nil
}

// GetProductRequestImage returns the full image attached to a product
// request, or nil if the request has none.
func (s *Store) GetProductRequestImage(ctx context.Context, id model.DBId) (*model.ProductImage, error) {
	query := `SELECT content_type, data FROM requested_products_full_image WHERE r_id = $1`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, dbErr("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var image model.ProductImage
	err = stmt.QueryRowContext(ctx, id).Scan(&image.ContentType, &image.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr("failed to get product request image: %w", err)
	}

	return &image, nil
}

// QueryProductRequests returns the requests matching the query together with
// their surrogate ids.
func (s *Store) QueryProductRequests(ctx context.Context, query repository.ProductQuery, withPreview bool) ([]repository.RequestedProduct, error) {
	statement, args, err := buildProductQuery(query, productRequests, withPreview)
	if err != nil {
		return nil, err
	}

	stmt, err := s.db.PrepareContext(ctx, statement)
	if err != nil {
		return nil, dbErr("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, dbErr("failed to query product requests: %w", err)
	}
	defer rows.Close()

	var requests []repository.RequestedProduct
	for rows.Next() {
		requested, err := scanRequestedProduct(rows, withPreview)
		if err != nil {
			var serErr *repository.SerializationError
			if errors.As(err, &serErr) {
				return nil, err
			}
			return nil, dbErr("failed to scan product request: %w", err)
		}
		requests = append(requests, requested)
	}

	if err := rows.Err(); err != nil {
		return nil, dbErr("error iterating rows: %w", err)
	}

	return requests, nil
}

// DeleteProductRequest deletes a request by surrogate id. Deleting an
// unknown id is a no-op.
func (s *Store) DeleteProductRequest(ctx context.Context, id model.DBId) error {
	slog.Info("deleting product request", slog.Int64("id", id))

	query := `DELETE FROM requested_products WHERE id = $1`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return dbErr("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return dbErr("failed to delete product request: %w", err)
	}

	return nil
}

// NewProduct adds a product to the catalog. When a product with the same
// natural key already exists the insert is attempted anyway; the resulting
// unique-constraint violation is treated as a normal "already exists"
// outcome and reported as false, after removing the description row created
// for the attempt.
func (s *Store) NewProduct(ctx context.Context, desc model.ProductDescription) (bool, error) {
	slog.Info("adding product to catalog",
		slog.String("product_id", desc.Info.ID),
		slog.String("name", desc.Info.Name),
	)

	descID, err := s.createProductDescription(ctx, desc)
	if err != nil {
		return false, err
	}

	query := `INSERT INTO products (product_description_id, product_id) VALUES ($1, $2)`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return false, dbErr("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, descID, desc.Info.ID); err != nil {
		if isUniqueViolation(err) {
			slog.Info("product already exists",
				slog.String("product_id", desc.Info.ID),
			)
			// The description row created for this attempt must not linger;
			// nutrients and image rows are left behind (see DESIGN.md).
			if err := s.deleteProductDescription(ctx, descID); err != nil {
				return false, err
			}
			return false, nil
		}
		return false, dbErr("failed to add product: %w", err)
	}

	return true, nil
}

// GetProduct returns the catalog product with the given natural key, or nil
// if no such product exists.
func (s *Store) GetProduct(ctx context.Context, id model.ProductID, withPreview bool) (*model.ProductDescription, error) {
	stmt, err := s.db.PrepareContext(ctx, buildGetProductQuery(withPreview))
	if err != nil {
		return nil, dbErr("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	desc, err := scanProductDescription(stmt.QueryRowContext(ctx, id), withPreview)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		var serErr *repository.SerializationError
		if errors.As(err, &serErr) {
			return nil, err
		}
		return nil, dbErr("failed to get product: %w", err)
	}

	return &desc, nil
}

// GetProductImage returns the full image of a catalog product, or nil if the
// product has none.
func (s *Store) GetProductImage(ctx context.Context, id model.ProductID) (*model.ProductImage, error) {
	query := `SELECT pi.content_type, pi.data FROM product_image pi ` +
		`JOIN product_description pd ON pd.photo = pi.id ` +
		`JOIN products p ON p.product_description_id = pd.id ` +
		`WHERE p.product_id = $1`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, dbErr("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var image model.ProductImage
	err = stmt.QueryRowContext(ctx, id).Scan(&image.ContentType, &image.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr("failed to get product image: %w", err)
	}

	return &image, nil
}

// QueryProducts returns the catalog products matching the query.
func (s *Store) QueryProducts(ctx context.Context, query repository.ProductQuery, withPreview bool) ([]model.ProductDescription, error) {
	statement, args, err := buildProductQuery(query, catalogProducts, withPreview)
	if err != nil {
		return nil, err
	}

	stmt, err := s.db.PrepareContext(ctx, statement)
	if err != nil {
		return nil, dbErr("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, dbErr("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.ProductDescription
	for rows.Next() {
		desc, err := scanProductDescription(rows, withPreview)
		if err != nil {
			var serErr *repository.SerializationError
			if errors.As(err, &serErr) {
				return nil, err
			}
			return nil, dbErr("failed to scan product: %w", err)
		}
		products = append(products, desc)
	}

	if err := rows.Err(); err != nil {
		return nil, dbErr("error iterating rows: %w", err)
	}

	return products, nil
}

// DeleteProduct removes a product from the catalog by natural key. Deleting
// an unknown id is a no-op. Description rows are kept for history.
func (s *Store) DeleteProduct(ctx context.Context, id model.ProductID) error {
	slog.Info("deleting product", slog.String("product_id", id))

	query := `DELETE FROM products WHERE product_id = $1`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return dbErr("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return dbErr("failed to delete product: %w", err)
	}

	return nil
}

// createNutrients inserts the nutrients row of a description and returns its
// surrogate id.
func (s *Store) createNutrients(ctx context.Context, nutrients model.Nutrients) (model.DBId, error) {
	query := `INSERT INTO nutrients (
		kcal, protein_grams, fat_grams, carbohydrates_grams, sugar_grams, salt_grams,
		vitamin_a_mg, vitamin_c_mg, vitamin_d_mug, iron_mg, calcium_mg, magnesium_mg, sodium_mg, zinc_mg
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return 0, dbErr("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var id model.DBId
	if err := stmt.QueryRowContext(ctx, nutrientArgs(nutrients)...).Scan(&id); err != nil {
		return 0, dbErr("failed to insert nutrients: %w", err)
	}

	return id, nil
}

// createImage inserts an image row and returns its surrogate id. A nil image
// creates no row and yields a nil id.
func (s *Store) createImage(ctx context.Context, image *model.ProductImage) (*model.DBId, error) {
	if image == nil {
		return nil, nil
	}

	query := `INSERT INTO product_image (data, content_type) VALUES ($1, $2) RETURNING id`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, dbErr("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var id model.DBId
	if err := stmt.QueryRowContext(ctx, image.Data, image.ContentType).Scan(&id); err != nil {
		return nil, dbErr("failed to insert product image: %w", err)
	}

	return &id, nil
}

// createProductDescription decomposes a description aggregate into its
// nutrients, image, and description rows. The inserts are issued one after
// the other, threading the generated ids; they are not wrapped in a
// transaction, so a failure partway leaves the earlier rows in place.
func (s *Store) createProductDescription(ctx context.Context, desc model.ProductDescription) (model.DBId, error) {
	nutrientsID, err := s.createNutrients(ctx, desc.Nutrients)
	if err != nil {
		return 0, err
	}

	previewID, err := s.createImage(ctx, desc.Preview)
	if err != nil {
		return 0, err
	}

	photoID, err := s.createImage(ctx, desc.FullImage)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO product_description (
		product_id, name, producer, quantity_type, portion, volume_weight_ratio, preview, photo, nutrients
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return 0, dbErr("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var id model.DBId
	err = stmt.QueryRowContext(ctx,
		desc.Info.ID,
		desc.Info.Name,
		desc.Info.Producer,
		string(desc.Info.QuantityType),
		desc.Info.Portion,
		desc.Info.VolumeWeightRatio,
		previewID,
		photoID,
		nutrientsID,
	).Scan(&id)
	if err != nil {
		return 0, dbErr("failed to insert product description: %w", err)
	}

	return id, nil
}

// deleteProductDescription removes a description row created by a composite
// write whose final insert failed.
func (s *Store) deleteProductDescription(ctx context.Context, id model.DBId) error {
	query := `DELETE FROM product_description WHERE id = $1`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return dbErr("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return dbErr("failed to delete product description: %w", err)
	}

	return nil
}
