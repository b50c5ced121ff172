package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutrikeep/product-db/internal/config"
	"github.com/nutrikeep/product-db/internal/repository"
)

// Controller handles general HTTP requests.
type Controller struct {
	backend repository.Backend
	config  *config.Config
}

// New creates a new Controller with the given configuration and backend.
func New(config *config.Config, backend repository.Backend) *Controller {
	return &Controller{
		config:  config,
		backend: backend,
	}
}

// Ping handles the HTTP GET request for health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

// MessageResponse is the response body carrying only a status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// statusForError maps a backend failure to an HTTP status. Invalid sorting
// requests are the caller's fault; everything else is a server-side failure.
func statusForError(err error) int {
	var invalidSorting *repository.InvalidSortingError
	if errors.As(err, &invalidSorting) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// abortWithError renders a backend failure. Client faults echo the reason;
// server faults hide internals behind the fallback message.
func abortWithError(c *gin.Context, err error, fallback string) {
	status := statusForError(err)
	message := fallback
	if status == http.StatusBadRequest {
		message = err.Error()
	}
	c.JSON(status, MessageResponse{Message: message})
}
