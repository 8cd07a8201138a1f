/*
Package order - order API controller.

Responsibilities:
 1. Parse and validate HTTP parameters.
 2. Call the order application service.
 3. Answer through the response package, which maps business errors to
    status codes.
*/
package order

import (
	"net/http"
	"strconv"

	"cafeledger/api/ctxutil"
	"cafeledger/api/response"
	orderapp "cafeledger/application/order"
	"cafeledger/domain/order"
	"cafeledger/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller order controller.
type Controller struct {
	orderService *orderapp.Service
}

// NewController creates the order controller.
func NewController(orderService *orderapp.Service) *Controller {
	return &Controller{
		orderService: orderService,
	}
}

// RegisterRoutes registers the order routes.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("/active", c.ListActive)
		orderGroup.GET("/today", c.ListToday)
		orderGroup.GET("/status/:status", c.ListByStatus)
		orderGroup.GET("/customer/:customerId", c.ListByCustomer)
		orderGroup.GET("/:id", c.GetOrder)
		orderGroup.PUT("/:id/status", c.UpdateOrderStatus)
		orderGroup.POST("/:id/cancel", c.CancelOrder)
		orderGroup.DELETE("/:id", c.DeleteOrder)
	}
}

// CreateOrderRequest placement request body.
type CreateOrderRequest struct {
	CustomerID  string                   `json:"customer_id" binding:"required"`
	Notes       string                   `json:"notes"`
	TableNumber string                   `json:"table_number"`
	Items       []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest one requested line item.
type CreateOrderItemRequest struct {
	ProductID    int64                     `json:"product_id" binding:"required"`
	Quantity     int                       `json:"quantity" binding:"required,min=1"`
	Instructions string                    `json:"instructions"`
	Extras       []CreateOrderExtraRequest `json:"extras" binding:"omitempty,dive"`
}

// CreateOrderExtraRequest one requested extra.
type CreateOrderExtraRequest struct {
	ExtraID  int64 `json:"extra_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,min=1"`
}

// CreateOrder places a pending order.
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cmd := orderapp.CreateOrderCommand{
		CustomerID:  req.CustomerID,
		Notes:       req.Notes,
		TableNumber: req.TableNumber,
		Items:       make([]orderapp.CreateOrderItem, len(req.Items)),
	}
	for i, item := range req.Items {
		extras := make([]orderapp.CreateOrderExtra, len(item.Extras))
		for j, extra := range item.Extras {
			extras[j] = orderapp.CreateOrderExtra{ExtraID: extra.ExtraID, Quantity: extra.Quantity}
		}
		cmd.Items[i] = orderapp.CreateOrderItem{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			Instructions: item.Instructions,
			Extras:       extras,
		}
	}

	result, err := c.orderService.CreateOrder(ctxutil.WithRequestID(ctx), cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, result, "order created successfully")
}

// GetOrder loads one order.
// GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	orderID, ok := c.orderIDParam(ctx)
	if !ok {
		return
	}

	result, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), orderID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "order retrieved successfully")
}

// UpdateOrderStatusRequest status transition request body.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order along the state machine.
// PUT /api/v1/orders/:id/status
func (c *Controller) UpdateOrderStatus(ctx *gin.Context) {
	orderID, ok := c.orderIDParam(ctx)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		response.HandleError(ctx, err, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := c.orderService.UpdateOrderStatus(ctxutil.WithRequestID(ctx), orderID, status)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "order status updated successfully")
}

// CancelOrder cancels an order.
// POST /api/v1/orders/:id/cancel
func (c *Controller) CancelOrder(ctx *gin.Context) {
	orderID, ok := c.orderIDParam(ctx)
	if !ok {
		return
	}

	result, err := c.orderService.CancelOrder(ctxutil.WithRequestID(ctx), orderID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "order cancelled successfully")
}

// DeleteOrder removes a finished order.
// DELETE /api/v1/orders/:id
func (c *Controller) DeleteOrder(ctx *gin.Context) {
	orderID, ok := c.orderIDParam(ctx)
	if !ok {
		return
	}

	if err := c.orderService.DeleteOrder(ctxutil.WithRequestID(ctx), orderID); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleNoContent(ctx)
}

// ListActive lists orders the staff still works on.
// GET /api/v1/orders/active
func (c *Controller) ListActive(ctx *gin.Context) {
	results, err := c.orderService.ListActive(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "active orders retrieved successfully")
}

// ListToday lists today's orders.
// GET /api/v1/orders/today
func (c *Controller) ListToday(ctx *gin.Context) {
	results, err := c.orderService.ListToday(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "today's orders retrieved successfully")
}

// ListByStatus lists orders in one status.
// GET /api/v1/orders/status/:status
func (c *Controller) ListByStatus(ctx *gin.Context) {
	status := ctx.Param("status")
	results, err := c.orderService.ListByStatus(ctxutil.WithRequestID(ctx), status)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "orders retrieved successfully")
}

// ListByCustomer lists a customer's orders.
// GET /api/v1/orders/customer/:customerId
func (c *Controller) ListByCustomer(ctx *gin.Context) {
	customerID := ctx.Param("customerId")
	if customerID == "" {
		response.HandleError(ctx, errors.BadRequest("customer ID is required"), "customer ID is required", http.StatusBadRequest)
		return
	}
	results, err := c.orderService.ListByCustomer(ctxutil.WithRequestID(ctx), customerID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "customer orders retrieved successfully")
}

func (c *Controller) orderIDParam(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || orderID <= 0 {
		response.HandleError(ctx, errors.BadRequest("invalid order ID"), "invalid order ID", http.StatusBadRequest)
		return 0, false
	}
	return orderID, true
}
