package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrikeep/product-db/internal/metrics"
	"github.com/nutrikeep/product-db/internal/model"
	"github.com/nutrikeep/product-db/internal/repository"
)

// MissingProductController handles HTTP requests for missing-product
// reports.
type MissingProductController struct {
	backend repository.Backend
}

// NewMissingProductController creates a new MissingProductController with
// the given backend.
func NewMissingProductController(backend repository.Backend) *MissingProductController {
	return &MissingProductController{backend: backend}
}

// ReportMissingProductRequest represents the request body for reporting a
// missing product.
type ReportMissingProductRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// ReportResponse represents the response body for a stored report or
// request submission.
type ReportResponse struct {
	Message string      `json:"message"`
	Date    *time.Time  `json:"date,omitempty"`
	ID      *model.DBId `json:"id,omitempty"`
}

// GetMissingProductResponse represents the response body for fetching one
// missing-product report.
type GetMissingProductResponse struct {
	Message        string                 `json:"message"`
	MissingProduct *MissingProductPayload `json:"missing_product,omitempty"`
}

// ReportedMissingProductPayload pairs a stored report with its id.
type ReportedMissingProductPayload struct {
	ID     model.DBId            `json:"id"`
	Report MissingProductPayload `json:"report"`
}

// MissingProductsQueryResponse represents the response body for a
// missing-product report query.
type MissingProductsQueryResponse struct {
	Message         string                          `json:"message"`
	MissingProducts []ReportedMissingProductPayload `json:"missing_products"`
}

func dbIDParam(c *gin.Context) (model.DBId, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
		return 0, false
	}
	return id, true
}

// ReportMissingProduct handles the HTTP POST request for reporting a
// missing product. The report date is assigned server-side.
func (mc *MissingProductController) ReportMissingProduct(c *gin.Context) {
	var req ReportMissingProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	report := model.MissingProduct{
		ProductID: req.ProductID,
		Date:      time.Now().UTC(),
	}

	id, err := mc.backend.ReportMissingProduct(c.Request.Context(), report)
	if err != nil {
		abortWithError(c, err, "failed to store missing-product report")
		return
	}

	metrics.MissingProductReportsCreated.Inc()
	c.JSON(http.StatusCreated, ReportResponse{
		Message: "missing product reported",
		Date:    &report.Date,
		ID:      &id,
	})
}

// GetMissingProduct handles the HTTP GET request for fetching one
// missing-product report by id.
func (mc *MissingProductController) GetMissingProduct(c *gin.Context) {
	id, ok := dbIDParam(c)
	if !ok {
		return
	}

	report, err := mc.backend.GetMissingProduct(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err, "failed to fetch missing-product report")
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, GetMissingProductResponse{Message: "missing-product report not found"})
		return
	}

	payload := toMissingProductPayload(*report)
	c.JSON(http.StatusOK, GetMissingProductResponse{
		Message:        "ok",
		MissingProduct: &payload,
	})
}

// QueryMissingProducts handles the HTTP POST request for querying
// missing-product reports.
func (mc *MissingProductController) QueryMissingProducts(c *gin.Context) {
	var req MissingProductQueryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	query, err := req.toRepository()
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	reports, err := mc.backend.QueryMissingProducts(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err, "failed to query missing-product reports")
		return
	}

	payloads := make([]ReportedMissingProductPayload, 0, len(reports))
	for _, r := range reports {
		payloads = append(payloads, ReportedMissingProductPayload{
			ID:     r.ID,
			Report: toMissingProductPayload(r.Report),
		})
	}

	c.JSON(http.StatusOK, MissingProductsQueryResponse{
		Message:         "ok",
		MissingProducts: payloads,
	})
}

// DeleteMissingProduct handles the HTTP DELETE request for removing one
// missing-product report. Deleting an unknown id succeeds.
func (mc *MissingProductController) DeleteMissingProduct(c *gin.Context) {
	id, ok := dbIDParam(c)
	if !ok {
		return
	}

	if err := mc.backend.DeleteReportedMissingProduct(c.Request.Context(), id); err != nil {
		abortWithError(c, err, "failed to delete missing-product report")
		return
	}

	metrics.MissingProductReportsDeleted.Inc()
	c.JSON(http.StatusOK, MessageResponse{Message: "missing-product report deleted"})
}
