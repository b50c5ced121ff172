package repository

import (
	"context"

	"github.com/nutrikeep/product-db/internal/model"
)

// ReportedMissingProduct pairs a stored missing-product report with the
// surrogate id it was assigned on insert.
type ReportedMissingProduct struct {
	ID     model.DBId
	Report model.MissingProduct
}

// RequestedProduct pairs a stored product request with its surrogate id.
type RequestedProduct struct {
	ID      model.DBId
	Request model.ProductRequest
}

// Backend is the capability the rest of the system depends on for product
// persistence. A single long-lived implementation is shared by all request
// handlers; it holds no mutable per-call state and is safe for concurrent
// use. Get operations return nil (not an error) for unknown ids, and all
// deletes are idempotent.
type Backend interface {
	// ReportMissingProduct stores a missing-product report and returns its
	// surrogate id.
	ReportMissingProduct(ctx context.Context, report model.MissingProduct) (model.DBId, error)
	GetMissingProduct(ctx context.Context, id model.DBId) (*model.MissingProduct, error)
	QueryMissingProducts(ctx context.Context, query MissingProductQuery) ([]ReportedMissingProduct, error)
	DeleteReportedMissingProduct(ctx context.Context, id model.DBId) error

	// RequestNewProduct stores a pending product submission and returns its
	// surrogate id.
	RequestNewProduct(ctx context.Context, request model.ProductRequest) (model.DBId, error)
	GetProductRequest(ctx context.Context, id model.DBId, withPreview bool) (*model.ProductRequest, error)
	GetProductRequestImage(ctx context.Context, id model.DBId) (*model.ProductImage, error)
	QueryProductRequests(ctx context.Context, query ProductQuery, withPreview bool) ([]RequestedProduct, error)
	DeleteProductRequest(ctx context.Context, id model.DBId) error

	// NewProduct adds a product to the catalog. It returns false, without an
	// error, when a catalog product with the same natural key already exists.
	NewProduct(ctx context.Context, desc model.ProductDescription) (bool, error)
	GetProduct(ctx context.Context, id model.ProductID, withPreview bool) (*model.ProductDescription, error)
	GetProductImage(ctx context.Context, id model.ProductID) (*model.ProductImage, error)
	QueryProducts(ctx context.Context, query ProductQuery, withPreview bool) ([]model.ProductDescription, error)
	DeleteProduct(ctx context.Context, id model.ProductID) error
}
