package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xproducts/ordering-api/internal/domains/ordering/adapters/http/mapper"
	"github.com/xproducts/ordering-api/internal/domains/ordering/application"
	orderingports "github.com/xproducts/ordering-api/internal/domains/ordering/ports"
	sharederrors "github.com/xproducts/ordering-api/internal/shared/errors"
)

// OrderAPI handles the ordering endpoints.
type OrderAPI struct {
	service   orderingports.Service
	responder *sharederrors.ChainedResponder
}

func NewOrderAPI(service orderingports.Service) *OrderAPI {
	return &OrderAPI{service: service, responder: newResponder()}
}

// PlaceOrder handles POST /api/orders.
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var req mapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.responder.BadRequest(c, "invalid order payload: "+err.Error())
		return
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), mapper.ToOrderItems(req))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomainOrder(order))
}

// GetOrder handles GET /api/orders/:id.
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.responder.BadRequest(c, "order id must be a UUID")
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
}

// ProductAPI handles the catalog endpoints.
type ProductAPI struct {
	service   orderingports.CatalogService
	responder *sharederrors.ChainedResponder
}

func NewProductAPI(service orderingports.CatalogService) *ProductAPI {
	return &ProductAPI{service: service, responder: newResponder()}
}

// CreateProduct handles POST /api/products.
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var req mapper.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.responder.BadRequest(c, "invalid product payload: "+err.Error())
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), mapper.ToProductInput(req))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomainProduct(product))
}

// GetProduct handles GET /api/products/:id.
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.responder.BadRequest(c, "product id must be a UUID")
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProduct(product))
}

// UpdateProduct handles PUT /api/products/:id.
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.responder.BadRequest(c, "product id must be a UUID")
		return
	}
	var req mapper.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.responder.BadRequest(c, "invalid product payload: "+err.Error())
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), id, mapper.ToProductInput(req))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProduct(product))
}

// DeleteProduct handles DELETE /api/products/:id.
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.responder.BadRequest(c, "product id must be a UUID")
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// newResponder maps the ordering error taxonomy onto problem responses, so
// the closed set of error kinds lands on distinct status codes.
func newResponder() *sharederrors.ChainedResponder {
	return sharederrors.NewChainedResponder("", mapOrderingError)
}

func mapOrderingError(err error) (sharederrors.ProblemDetail, bool) {
	var notFound *application.ProductsNotFoundError
	if errors.As(err, &notFound) {
		ids := make([]string, 0, len(notFound.ProductIDs))
		for _, id := range notFound.ProductIDs {
			ids = append(ids, id.String())
		}
		return sharederrors.ErrNotFound.
			WithDetail(notFound.Error()).
			WithExtension("missingProductIds", ids), true
	}
	var insufficient *application.InsufficientStockError
	if errors.As(err, &insufficient) {
		return sharederrors.ErrConflict.
			WithDetail(insufficient.Error()).
			WithExtension("productId", insufficient.ProductID.String()).
			WithExtension("requested", insufficient.Requested).
			WithExtension("available", insufficient.Available), true
	}
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrConflictExhausted):
		return sharederrors.ErrConflict.WithDetail("order could not be placed due to concurrent stock updates, please retry"), true
	case errors.Is(err, orderingports.ErrVersionConflict):
		return sharederrors.ErrConflict.WithDetail("the product was modified concurrently, please retry"), true
	case errors.Is(err, orderingports.ErrOrderNotFound):
		return sharederrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, orderingports.ErrProductNotFound):
		return sharederrors.ErrNotFound.WithDetail("product not found"), true
	}
	return sharederrors.ProblemDetail{}, false
}
