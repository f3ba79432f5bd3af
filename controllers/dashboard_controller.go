package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/services"
)

// GetDashboardStats handles GET /api/v1/admin/dashboard - computes the
// back-office rollup over the live collections (admins only). There is no
// push channel; a re-fetch of this endpoint is the only re-sync mechanism
// after a status transition.
func GetDashboardStats(c *gin.Context) {
	dashboard := services.NewDashboardService(config.GetDB())

	stats, err := dashboard.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute dashboard statistics",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
