package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/middleware"
	"github.com/vrindacare/pharmacy-api/services"
)

// CheckoutRequest represents the shipping/payment form submitted at checkout
type CheckoutRequest struct {
	Name            string `json:"name" binding:"required"`
	Address         string `json:"address" binding:"required"`
	City            string `json:"city" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	PaymentMethod   string `json:"paymentMethod" binding:"required,oneof=cod online"`
	OnlineSubMethod string `json:"onlineSubMethod" binding:"omitempty,oneof=upi card netbanking"`
	UPIPaymentType  string `json:"upiPaymentType" binding:"omitempty,oneof=id qr"`
}

// Checkout handles POST /api/v1/checkout - turns the current cart into an order.
// A repeated submission with the same Idempotency-Key header returns the
// already-created order instead of placing a second one.
func Checkout(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	cfg := config.GetConfig()
	carts := services.NewCartService(config.GetDB(), services.GetCartCache())
	checkout := services.NewCheckoutService(config.GetDB(), carts, cfg.CODProcessingDelay, cfg.OnlinePaymentDelay)

	result, err := checkout.Checkout(c.Request.Context(), services.CheckoutInput{
		Name:            req.Name,
		Email:           user.Email,
		Address:         req.Address,
		City:            req.City,
		Phone:           req.Phone,
		PaymentMethod:   req.PaymentMethod,
		OnlineSubMethod: req.OnlineSubMethod,
		UPIPaymentType:  req.UPIPaymentType,
	}, idempotencyKey)

	switch {
	case errors.Is(err, services.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_CART",
				"message": "Cannot check out an empty cart",
			},
		})
		return
	case errors.Is(err, services.ErrInvalidPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PAYMENT_METHOD",
				"message": "Unrecognized payment method selection",
			},
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CHECKOUT_FAILED",
				"message": "Failed to place order",
			},
		})
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}

	c.JSON(status, gin.H{
		"success": true,
		"data":    result,
	})
}
