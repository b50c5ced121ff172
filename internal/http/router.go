package http

import (
	"github.com/gin-gonic/gin"
	"github.com/nutrikeep/product-db/internal/http/controller"
	"github.com/nutrikeep/product-db/internal/http/middleware"
)

// Controllers bundles the request handlers the router dispatches to.
type Controllers struct {
	Base            *controller.Controller
	MissingProducts *controller.MissingProductController
	ProductRequests *controller.ProductRequestController
	Products        *controller.ProductController
}

// InitRouter wires all routes onto the given gin engine. User-facing routes
// cover reporting, submissions and catalog reads; admin routes cover review
// and catalog management.
func InitRouter(server *gin.Engine, ctr Controllers) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.CORS())
	server.Use(middleware.Logger())

	server.GET("/ping", ctr.Base.Ping)

	user := server.Group("/user")
	{
		user.POST("/missing_products", ctr.MissingProducts.ReportMissingProduct)
		user.POST("/product_request", ctr.ProductRequests.RequestNewProduct)
	}

	product := server.Group("/product")
	{
		product.GET("/:id", ctr.Products.GetProduct)
		product.GET("/:id/image", ctr.Products.GetProductImage)
		product.POST("/query", ctr.Products.QueryProducts)
	}

	admin := server.Group("/admin")
	{
		admin.GET("/missing_products/:id", ctr.MissingProducts.GetMissingProduct)
		admin.POST("/missing_products/query", ctr.MissingProducts.QueryMissingProducts)
		admin.DELETE("/missing_products/:id", ctr.MissingProducts.DeleteMissingProduct)

		admin.GET("/product_request/:id", ctr.ProductRequests.GetProductRequest)
		admin.GET("/product_request/:id/image", ctr.ProductRequests.GetProductRequestImage)
		admin.POST("/product_request/query", ctr.ProductRequests.QueryProductRequests)
		admin.DELETE("/product_request/:id", ctr.ProductRequests.DeleteProductRequest)

		admin.POST("/product", ctr.Products.CreateProduct)
		admin.DELETE("/product/:id", ctr.Products.DeleteProduct)
	}

	return server
}
