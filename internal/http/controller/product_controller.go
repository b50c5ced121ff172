package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutrikeep/product-db/internal/metrics"
	"github.com/nutrikeep/product-db/internal/repository"
)

// ProductController handles HTTP requests for catalog products.
type ProductController struct {
	backend repository.Backend
}

// NewProductController creates a new ProductController with the given
// backend.
func NewProductController(backend repository.Backend) *ProductController {
	return &ProductController{backend: backend}
}

// GetProductResponse represents the response body for fetching one catalog
// product.
type GetProductResponse struct {
	Message string                     `json:"message"`
	Product *ProductDescriptionPayload `json:"product,omitempty"`
}

// ProductQueryResponse represents the response body for a catalog product
// query.
type ProductQueryResponse struct {
	Message  string                      `json:"message"`
	Products []ProductDescriptionPayload `json:"products"`
}

// CreateProduct handles the HTTP POST request for adding a product to the
// catalog. A duplicate natural key yields 409 without storing anything new.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req ProductDescriptionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	desc, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	created, err := pc.backend.NewProduct(c.Request.Context(), desc)
	if err != nil {
		abortWithError(c, err, "failed to create product")
		return
	}
	if !created {
		c.JSON(http.StatusConflict, MessageResponse{Message: "product already exists"})
		return
	}

	metrics.ProductsCreated.Inc()
	c.JSON(http.StatusCreated, MessageResponse{Message: "product created"})
}

// GetProduct handles the HTTP GET request for fetching one catalog product
// by its natural key. The preview image is attached when with_preview is
// set.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id := c.Param("id")
	withPreview := c.Query("with_preview") == "true"

	product, err := pc.backend.GetProduct(c.Request.Context(), id, withPreview)
	if err != nil {
		abortWithError(c, err, "failed to fetch product")
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, GetProductResponse{Message: "product not found"})
		return
	}

	payload := toDescriptionPayload(*product)
	c.JSON(http.StatusOK, GetProductResponse{
		Message: "ok",
		Product: &payload,
	})
}

// GetProductImage handles the HTTP GET request for fetching the full image
// of a catalog product. The image bytes are served directly under their
// stored content type.
func (pc *ProductController) GetProductImage(c *gin.Context) {
	id := c.Param("id")

	image, err := pc.backend.GetProductImage(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err, "failed to fetch product image")
		return
	}
	if image == nil {
		c.JSON(http.StatusNotFound, MessageResponse{Message: "product image not found"})
		return
	}

	c.Data(http.StatusOK, image.ContentType, image.Data)
}

// QueryProducts handles the HTTP POST request for querying catalog
// products.
func (pc *ProductController) QueryProducts(c *gin.Context) {
	var req ProductQueryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	query, err := req.toRepository()
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	products, err := pc.backend.QueryProducts(c.Request.Context(), query, req.WithPreview)
	if err != nil {
		abortWithError(c, err, "failed to query products")
		return
	}

	payloads := make([]ProductDescriptionPayload, 0, len(products))
	for _, p := range products {
		payloads = append(payloads, toDescriptionPayload(p))
	}

	c.JSON(http.StatusOK, ProductQueryResponse{
		Message:  "ok",
		Products: payloads,
	})
}

// DeleteProduct handles the HTTP DELETE request for removing one catalog
// product. Deleting an unknown id succeeds.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := pc.backend.DeleteProduct(c.Request.Context(), id); err != nil {
		abortWithError(c, err, "failed to delete product")
		return
	}

	metrics.ProductsDeleted.Inc()
	c.JSON(http.StatusOK, MessageResponse{Message: "product deleted"})
}
