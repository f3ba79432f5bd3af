package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/models"
	"github.com/vrindacare/pharmacy-api/services"
)

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Category      string  `json:"category" binding:"required"`
	Price         float64 `json:"price" binding:"required,gte=0"`
	Image         string  `json:"image"`
	Rating        float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Description   string  `json:"description"`
	Dosage        string  `json:"dosage"`
	SafetyWarning string  `json:"safetyWarning"`
	StockStatus   string  `json:"stockStatus"`
	SKU           string  `json:"sku"`
	Manufacturer  string  `json:"manufacturer"`
}

func (r ProductRequest) toModel() models.Product {
	return models.Product{
		Name:          r.Name,
		Category:      r.Category,
		Price:         r.Price,
		Image:         r.Image,
		Rating:        r.Rating,
		Description:   r.Description,
		Dosage:        r.Dosage,
		SafetyWarning: r.SafetyWarning,
		StockStatus:   r.StockStatus,
		SKU:           r.SKU,
		Manufacturer:  r.Manufacturer,
	}
}

// ListProducts handles GET /api/v1/products - returns the full catalog
func ListProducts(c *gin.Context) {
	catalog := services.NewCatalogService(config.GetDB())

	products, err := catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id - returns a single product
func GetProduct(c *gin.Context) {
	catalog := services.NewCatalogService(config.GetDB())

	product, err := catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CreateProduct handles POST /api/v1/products - adds a product (admins only)
func CreateProduct(c *gin.Context) {
	var req ProductRequest
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

	catalog := services.NewCatalogService(config.GetDB())
	product, err := catalog.AddProduct(c.Request.Context(), req.toModel())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/products/:id - replaces a product (admins only)
func UpdateProduct(c *gin.Context) {
	var req ProductRequest
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

	catalog := services.NewCatalogService(config.GetDB())
	updated := req.toModel()
	updated.Slug = services.Slugify(updated.Name)

	product, err := catalog.UpdateProduct(c.Request.Context(), c.Param("id"), updated)
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/products/:id - removes a product (admins only)
func DeleteProduct(c *gin.Context) {
	catalog := services.NewCatalogService(config.GetDB())

	err := catalog.DeleteProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
