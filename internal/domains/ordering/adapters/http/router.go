package http

import "github.com/gin-gonic/gin"

// NewRouter registers the ordering and catalog routes.
func NewRouter(orders *OrderAPI, products *ProductAPI) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/orders", orders.PlaceOrder)
		api.GET("/orders/:id", orders.GetOrder)

		api.POST("/products", products.CreateProduct)
		api.GET("/products/:id", products.GetProduct)
		api.PUT("/products/:id", products.UpdateProduct)
		api.DELETE("/products/:id", products.DeleteProduct)
	}

	return router
}
