package controllers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/models"
)

// CreateInquiryRequest represents the contact-form submission
type CreateInquiryRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// UpdateInquiryStatusRequest represents the request body for an inquiry status change
type UpdateInquiryStatusRequest struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// CreateInquiry handles POST /api/v1/inquiries - records a contact-form
// message. No login is required to reach out.
func CreateInquiry(c *gin.Context) {
	var req CreateInquiryRequest
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

	inquiry := models.Inquiry{
		InquiryID: newInquiryID(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Date:      time.Now(),
		Status:    models.InquiryStatusNew,
	}

	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&inquiry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save inquiry",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    inquiry,
	})
}

// ListInquiries handles GET /api/v1/inquiries - lists all inquiries, newest
// first (admins only)
func ListInquiries(c *gin.Context) {
	db := config.GetDB()

	var inquiries []models.Inquiry
	if err := db.WithContext(c.Request.Context()).Order("date DESC").Find(&inquiries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list inquiries",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    inquiries,
	})
}

// UpdateInquiryStatus handles PATCH /api/v1/inquiries - advances an inquiry's
// status (admins only)
func UpdateInquiryStatus(c *gin.Context) {
	var req UpdateInquiryStatusRequest
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

	if !models.ValidInquiryStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Status must be one of New, Read, Replied",
			},
		})
		return
	}

	db := config.GetDB()
	var inquiry models.Inquiry
	err := db.WithContext(c.Request.Context()).Where("inquiry_id = ?", req.ID).First(&inquiry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INQUIRY_NOT_FOUND",
				"message": "Inquiry not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load inquiry",
			},
		})
		return
	}

	if err := db.WithContext(c.Request.Context()).Model(&inquiry).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update inquiry status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    inquiry,
	})
}

// DeleteInquiry handles DELETE /api/v1/inquiries/:id (admins only)
func DeleteInquiry(c *gin.Context) {
	db := config.GetDB()

	result := db.WithContext(c.Request.Context()).Where("inquiry_id = ?", c.Param("id")).Delete(&models.Inquiry{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete inquiry",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INQUIRY_NOT_FOUND",
				"message": "Inquiry not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// newInquiryID generates a public inquiry token: "INQ-" plus a short
// uppercase base-36 string, matching the storefront's id format.
func newInquiryID() string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	var b strings.Builder
	for i := 0; i < 9; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return fmt.Sprintf("INQ-%s", b.String())
}
