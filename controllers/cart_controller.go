package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/middleware"
	"github.com/vrindacare/pharmacy-api/models"
	"github.com/vrindacare/pharmacy-api/services"
)

// UpdateCartItemRequest represents the request body for changing a line's quantity
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func cartService() *services.CartService {
	return services.NewCartService(config.GetDB(), services.GetCartCache())
}

// GetCart handles GET /api/v1/cart - returns the current cart with its derived total
func GetCart(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	cart, err := cartService().GetCart(c.Request.Context(), user.Email)
	if err != nil {
		respondCartError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

// AddCartItem handles POST /api/v1/cart/items - merges an item into the cart
func AddCartItem(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
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

	cart, err := cartService().AddItem(c.Request.Context(), user.Email, item)
	if err != nil {
		respondCartError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

// UpdateCartItem handles PATCH /api/v1/cart/items/:id - sets a line's quantity.
// A quantity below 1 removes the line.
func UpdateCartItem(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Quantity is required",
				"details": err.Error(),
			},
		})
		return
	}

	cart, err := cartService().UpdateQuantity(c.Request.Context(), user.Email, c.Param("id"), *req.Quantity)
	if err != nil {
		respondCartError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:id - removes a line
func RemoveCartItem(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	cart, err := cartService().RemoveItem(c.Request.Context(), user.Email, c.Param("id"))
	if err != nil {
		respondCartError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

// ClearCart handles DELETE /api/v1/cart - empties the cart
func ClearCart(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	cart, err := cartService().ClearCart(c.Request.Context(), user.Email)
	if err != nil {
		respondCartError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Could not extract user information",
		},
	})
}

func respondCartError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to access cart",
		},
	})
}
