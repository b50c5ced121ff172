package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated is a Prometheus counter for tracking the total number of catalog products created.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "The total number of catalog products created",
	})

	// ProductsDeleted is a Prometheus counter for tracking the total number of catalog products deleted.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "The total number of catalog products deleted",
	})

	// ProductRequestsCreated is a Prometheus counter for tracking the total number of product requests submitted.
	ProductRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_requests_created_total",
		Help: "The total number of product requests submitted",
	})

	// ProductRequestsDeleted is a Prometheus counter for tracking the total number of product requests deleted.
	ProductRequestsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_requests_deleted_total",
		Help: "The total number of product requests deleted",
	})

	// MissingProductReportsCreated is a Prometheus counter for tracking the total number of missing-product reports filed.
	MissingProductReportsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "missing_product_reports_created_total",
		Help: "The total number of missing-product reports filed",
	})

	// MissingProductReportsDeleted is a Prometheus counter for tracking the total number of missing-product reports deleted.
	MissingProductReportsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "missing_product_reports_deleted_total",
		Help: "The total number of missing-product reports deleted",
	})
)
