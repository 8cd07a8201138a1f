// Package loyalty - loyalty API controller.
package loyalty

import (
	"net/http"
	"strconv"

	"cafeledger/api/ctxutil"
	"cafeledger/api/response"
	loyaltyapp "cafeledger/application/loyalty"
	"cafeledger/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller loyalty controller.
type Controller struct {
	loyaltyService *loyaltyapp.Service
}

// NewController creates the loyalty controller.
func NewController(loyaltyService *loyaltyapp.Service) *Controller {
	return &Controller{
		loyaltyService: loyaltyService,
	}
}

// RegisterRoutes registers the loyalty routes.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	loyaltyGroup := router.Group("/loyalty")
	{
		loyaltyGroup.GET("/rewards", c.ListRewards)
		loyaltyGroup.GET("/accounts/:customerId", c.GetAccount)
		loyaltyGroup.GET("/accounts/:customerId/rewards", c.ListAffordableRewards)
		loyaltyGroup.GET("/accounts/:customerId/transactions", c.GetTransactionHistory)
		loyaltyGroup.POST("/accounts/:customerId/redeem", c.RedeemReward)
		loyaltyGroup.POST("/accounts/:customerId/bonus", c.AddBonusPoints)
		loyaltyGroup.POST("/accounts/:customerId/adjust", c.AdjustPoints)
		loyaltyGroup.POST("/accounts/:customerId/upgrade", c.UpgradeTier)
	}
}

// GetAccount returns the customer's account, creating it on first contact.
// GET /api/v1/loyalty/accounts/:customerId
func (c *Controller) GetAccount(ctx *gin.Context) {
	customerID, ok := c.customerIDParam(ctx)
	if !ok {
		return
	}

	result, err := c.loyaltyService.GetOrCreateAccount(ctxutil.WithRequestID(ctx), customerID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "loyalty account retrieved successfully")
}

// ListRewards lists all redeemable rewards, optionally narrowed to what a
// tier may redeem.
// GET /api/v1/loyalty/rewards?tier=silver
func (c *Controller) ListRewards(ctx *gin.Context) {
	var results []*loyaltyapp.RewardResult
	var err error
	if tier := ctx.Query("tier"); tier != "" {
		results, err = c.loyaltyService.ListRewardsForTier(ctxutil.WithRequestID(ctx), tier)
	} else {
		results, err = c.loyaltyService.ListAvailableRewards(ctxutil.WithRequestID(ctx))
	}
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "rewards retrieved successfully")
}

// ListAffordableRewards lists rewards the customer can redeem right now.
// GET /api/v1/loyalty/accounts/:customerId/rewards
func (c *Controller) ListAffordableRewards(ctx *gin.Context) {
	customerID, ok := c.customerIDParam(ctx)
	if !ok {
		return
	}

	results, err := c.loyaltyService.ListAffordableRewards(ctxutil.WithRequestID(ctx), customerID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "affordable rewards retrieved successfully")
}

// GetTransactionHistory lists the customer's point ledger, newest first.
// GET /api/v1/loyalty/accounts/:customerId/transactions?limit=50
func (c *Controller) GetTransactionHistory(ctx *gin.Context) {
	customerID, ok := c.customerIDParam(ctx)
	if !ok {
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.HandleError(ctx, errors.BadRequest("invalid limit"), "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	results, err := c.loyaltyService.GetTransactionHistory(ctxutil.WithRequestID(ctx), customerID, limit)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, results, "transaction history retrieved successfully")
}

// RedeemRewardRequest redemption request body.
type RedeemRewardRequest struct {
	RewardID int64 `json:"reward_id" binding:"required"`
}

// RedeemReward spends points on a reward.
// POST /api/v1/loyalty/accounts/:customerId/redeem
func (c *Controller) RedeemReward(ctx *gin.Context) {
	customerID, ok := c.customerIDParam(ctx)
	if !ok {
		return
	}

	var req RedeemRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.loyaltyService.RedeemReward(ctxutil.WithRequestID(ctx), customerID, req.RewardID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "reward redeemed successfully")
}

// BonusPointsRequest bonus credit request body.
type BonusPointsRequest struct {
	Points      int    `json:"points" binding:"required,min=1"`
	Description string `json:"description" binding:"required"`
}

// AddBonusPoints credits promotional points.
// POST /api/v1/loyalty/accounts/:customerId/bonus
func (c *Controller) AddBonusPoints(ctx *gin.Context) {
	customerID, ok := c.customerIDParam(ctx)
	if !ok {
		return
	}

	var req BonusPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.loyaltyService.AddBonusPoints(ctxutil.WithRequestID(ctx), customerID, req.Points, req.Description)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "bonus points added successfully")
}

// AdjustPointsRequest manual correction request body. Points may be negative.
type AdjustPointsRequest struct {
	Points      int    `json:"points" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// AdjustPoints applies a signed manual correction.
// POST /api/v1/loyalty/accounts/:customerId/adjust
func (c *Controller) AdjustPoints(ctx *gin.Context) {
	customerID, ok := c.customerIDParam(ctx)
	if !ok {
		return
	}

	var req AdjustPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.loyaltyService.AdjustPoints(ctxutil.WithRequestID(ctx), customerID, req.Points, req.Description)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "points adjusted successfully")
}

// UpgradeTier purchases the next tier with points.
// POST /api/v1/loyalty/accounts/:customerId/upgrade
func (c *Controller) UpgradeTier(ctx *gin.Context) {
	customerID, ok := c.customerIDParam(ctx)
	if !ok {
		return
	}

	result, err := c.loyaltyService.UpgradeTier(ctxutil.WithRequestID(ctx), customerID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "tier upgraded successfully")
}

func (c *Controller) customerIDParam(ctx *gin.Context) (string, bool) {
	customerID := ctx.Param("customerId")
	if customerID == "" {
		response.HandleError(ctx, errors.BadRequest("customer ID is required"), "customer ID is required", http.StatusBadRequest)
		return "", false
	}
	return customerID, true
}
