package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrikeep/product-db/internal/metrics"
	"github.com/nutrikeep/product-db/internal/model"
	"github.com/nutrikeep/product-db/internal/repository"
)

// ProductRequestController handles HTTP requests for pending product
// submissions.
type ProductRequestController struct {
	backend repository.Backend
}

// NewProductRequestController creates a new ProductRequestController with
// the given backend.
func NewProductRequestController(backend repository.Backend) *ProductRequestController {
	return &ProductRequestController{backend: backend}
}

// GetProductRequestResponse represents the response body for fetching one
// product request.
type GetProductRequestResponse struct {
	Message        string                 `json:"message"`
	ProductRequest *ProductRequestPayload `json:"product_request,omitempty"`
}

// RequestedProductPayload pairs a stored product request with its id.
type RequestedProductPayload struct {
	ID      model.DBId            `json:"id"`
	Request ProductRequestPayload `json:"request"`
}

// ProductRequestQueryResponse represents the response body for a product
// request query.
type ProductRequestQueryResponse struct {
	Message         string                    `json:"message"`
	ProductRequests []RequestedProductPayload `json:"product_requests"`
}

// RequestNewProduct handles the HTTP POST request for submitting a new
// product for review. The submission date is assigned server-side.
func (rc *ProductRequestController) RequestNewProduct(c *gin.Context) {
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

	request := model.ProductRequest{
		Description: desc,
		Date:        time.Now().UTC(),
	}

	id, err := rc.backend.RequestNewProduct(c.Request.Context(), request)
	if err != nil {
		abortWithError(c, err, "failed to store product request")
		return
	}

	metrics.ProductRequestsCreated.Inc()
	c.JSON(http.StatusCreated, ReportResponse{
		Message: "product request submitted",
		Date:    &request.Date,
		ID:      &id,
	})
}

// GetProductRequest handles the HTTP GET request for fetching one product
// request by id. The preview image is attached when with_preview is set.
func (rc *ProductRequestController) GetProductRequest(c *gin.Context) {
	id, ok := dbIDParam(c)
	if !ok {
		return
	}
	withPreview := c.Query("with_preview") == "true"

	request, err := rc.backend.GetProductRequest(c.Request.Context(), id, withPreview)
	if err != nil {
		abortWithError(c, err, "failed to fetch product request")
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, GetProductRequestResponse{Message: "product request not found"})
		return
	}

	payload := toProductRequestPayload(*request)
	c.JSON(http.StatusOK, GetProductRequestResponse{
		Message:        "ok",
		ProductRequest: &payload,
	})
}

// GetProductRequestImage handles the HTTP GET request for fetching the full
// image of a product request. The image bytes are served directly under
// their stored content type.
func (rc *ProductRequestController) GetProductRequestImage(c *gin.Context) {
	id, ok := dbIDParam(c)
	if !ok {
		return
	}

	image, err := rc.backend.GetProductRequestImage(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err, "failed to fetch product request image")
		return
	}
	if image == nil {
		c.JSON(http.StatusNotFound, MessageResponse{Message: "product request image not found"})
		return
	}

	c.Data(http.StatusOK, image.ContentType, image.Data)
}

// QueryProductRequests handles the HTTP POST request for querying product
// requests.
func (rc *ProductRequestController) QueryProductRequests(c *gin.Context) {
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

	requests, err := rc.backend.QueryProductRequests(c.Request.Context(), query, req.WithPreview)
	if err != nil {
		abortWithError(c, err, "failed to query product requests")
		return
	}

	payloads := make([]RequestedProductPayload, 0, len(requests))
	for _, r := range requests {
		payloads = append(payloads, RequestedProductPayload{
			ID:      r.ID,
			Request: toProductRequestPayload(r.Request),
		})
	}

	c.JSON(http.StatusOK, ProductRequestQueryResponse{
		Message:         "ok",
		ProductRequests: payloads,
	})
}

// DeleteProductRequest handles the HTTP DELETE request for removing one
// product request. Deleting an unknown id succeeds.
func (rc *ProductRequestController) DeleteProductRequest(c *gin.Context) {
	id, ok := dbIDParam(c)
	if !ok {
		return
	}

	if err := rc.backend.DeleteProductRequest(c.Request.Context(), id); err != nil {
		abortWithError(c, err, "failed to delete product request")
		return
	}

	metrics.ProductRequestsDeleted.Inc()
	c.JSON(http.StatusOK, MessageResponse{Message: "product request deleted"})
}
