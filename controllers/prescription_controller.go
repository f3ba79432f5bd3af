package controllers

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/middleware"
	"github.com/vrindacare/pharmacy-api/models"
	"github.com/vrindacare/pharmacy-api/services"
	"github.com/vrindacare/pharmacy-api/utils"
)

// UpdatePrescriptionStatusRequest represents the request body for a
// prescription status change
type UpdatePrescriptionStatusRequest struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// UploadPrescription handles POST /api/v1/prescriptions - accepts a
// prescription upload (optional PNG image plus notes) for pharmacist review
func UploadPrescription(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	prescription := models.Prescription{
		PrescriptionID: newPrescriptionID(),
		Patient:        user.Name,
		UploadedBy:     user.Email,
		Time:           time.Now(),
		Status:         models.PrescriptionStatusPending,
		Notes:          c.PostForm("notes"),
	}

	// The image is optional; a notes-only upload is accepted
	fileHeader, err := c.FormFile("image")
	if err == nil {
		imageKey, uploadErr := services.GetImageService().UploadImage(fileHeader)
		if uploadErr != nil {
			var fileErr *utils.FileUploadError
			if errors.As(uploadErr, &fileErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    fileErr.Code,
						"message": fileErr.Message,
					},
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_FAILED",
					"message": "Failed to store prescription image",
				},
			})
			return
		}
		prescription.ImageKey = &imageKey
	}

	db := config.GetDB()
	if err := db.WithContext(c.Request.Context()).Create(&prescription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save prescription",
			},
		})
		return
	}

	attachImageURL(&prescription)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    prescription,
	})
}

// ListPrescriptions handles GET /api/v1/prescriptions - lists prescriptions,
// newest first. Customers see their own; admins see all, optionally filtered
// by the email query parameter.
func ListPrescriptions(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	query := db.WithContext(c.Request.Context()).Order("time DESC")

	if user.Role == models.RoleAdmin {
		if email := c.Query("email"); email != "" {
			query = query.Where("uploaded_by = ?", email)
		}
	} else {
		query = query.Where("uploaded_by = ?", user.Email)
	}

	var prescriptions []models.Prescription
	if err := query.Find(&prescriptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list prescriptions",
			},
		})
		return
	}

	for i := range prescriptions {
		attachImageURL(&prescriptions[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    prescriptions,
	})
}

// UpdatePrescriptionStatus handles PATCH /api/v1/prescriptions - sets a
// prescription's review status (admins only). Any of the three labels may be
// set at any time; transitions are not restricted to one direction.
func UpdatePrescriptionStatus(c *gin.Context) {
	var req UpdatePrescriptionStatusRequest
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

	if !models.ValidPrescriptionStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Status must be one of Pending, Approved, Rejected",
			},
		})
		return
	}

	db := config.GetDB()
	var prescription models.Prescription
	err := db.WithContext(c.Request.Context()).Where("prescription_id = ?", req.ID).First(&prescription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRESCRIPTION_NOT_FOUND",
				"message": "Prescription not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load prescription",
			},
		})
		return
	}

	if err := db.WithContext(c.Request.Context()).Model(&prescription).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update prescription status",
			},
		})
		return
	}

	attachImageURL(&prescription)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    prescription,
	})
}

// DeletePrescription handles DELETE /api/v1/prescriptions/:id (admins only)
func DeletePrescription(c *gin.Context) {
	db := config.GetDB()

	var prescription models.Prescription
	err := db.WithContext(c.Request.Context()).Where("prescription_id = ?", c.Param("id")).First(&prescription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRESCRIPTION_NOT_FOUND",
				"message": "Prescription not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load prescription",
			},
		})
		return
	}

	if prescription.ImageKey != nil {
		if err := services.GetImageService().DeleteImage(*prescription.ImageKey); err != nil {
			log.Printf("failed to delete prescription image %s: %v", *prescription.ImageKey, err)
		}
	}

	if err := db.WithContext(c.Request.Context()).Delete(&prescription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete prescription",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// attachImageURL hydrates the computed image URL from the stored key. URL
// generation failures are logged, not surfaced; the record is still returned.
func attachImageURL(p *models.Prescription) {
	if p.ImageKey == nil || *p.ImageKey == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*p.ImageKey)
	if err != nil {
		log.Printf("failed to generate image URL for %s: %v", p.PrescriptionID, err)
		return
	}
	p.ImageURL = &url
}

// newPrescriptionID generates a public prescription token: "RX-" plus a
// random 3-digit number, matching the storefront's id format.
func newPrescriptionID() string {
	return fmt.Sprintf("RX-%d", 100+rand.Intn(899))
}
