// Package stock - stock administration API controller.
package stock

import (
	"net/http"
	"strconv"

	"cafeledger/api/ctxutil"
	"cafeledger/api/response"
	stockapp "cafeledger/application/stock"
	"cafeledger/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller stock controller.
type Controller struct {
	stockService *stockapp.Service
}

// NewController creates the stock controller.
func NewController(stockService *stockapp.Service) *Controller {
	return &Controller{
		stockService: stockService,
	}
}

// RegisterRoutes registers the stock routes.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	stockGroup := router.Group("/stock")
	{
		stockGroup.GET("/products/low", c.LowStockProducts)
		stockGroup.GET("/extras/low", c.LowStockExtras)
		stockGroup.POST("/products/:id/restock", c.RestockProduct)
		stockGroup.POST("/extras/:id/restock", c.RestockExtra)
	}
}

// RestockRequest restock request body.
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// RestockProduct adds delivered units to a product's counter.
// POST /api/v1/stock/products/:id/restock
func (c *Controller) RestockProduct(ctx *gin.Context) {
	productID, ok := c.idParam(ctx)
	if !ok {
		return
	}

	var req RestockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.stockService.RestockProduct(ctxutil.WithRequestID(ctx), productID, req.Quantity)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "product restocked successfully")
}

// RestockExtra adds delivered units to an extra's counter.
// POST /api/v1/stock/extras/:id/restock
func (c *Controller) RestockExtra(ctx *gin.Context) {
	extraID, ok := c.idParam(ctx)
	if !ok {
		return
	}

	var req RestockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.stockService.RestockExtra(ctxutil.WithRequestID(ctx), extraID, req.Quantity)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "extra restocked successfully")
}

// LowStockProducts lists tracked products at or below their alert threshold.
// GET /api/v1/stock/products/low
func (c *Controller) LowStockProducts(ctx *gin.Context) {
	results, err := c.stockService.LowStockProducts(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "low stock products retrieved successfully")
}

// LowStockExtras lists extras at or below their alert threshold.
// GET /api/v1/stock/extras/low
func (c *Controller) LowStockExtras(ctx *gin.Context) {
	results, err := c.stockService.LowStockExtras(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "low stock extras retrieved successfully")
}

func (c *Controller) idParam(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.HandleError(ctx, errors.BadRequest("invalid ID"), "invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
