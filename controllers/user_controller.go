package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/middleware"
	"github.com/vrindacare/pharmacy-api/models"
	"github.com/vrindacare/pharmacy-api/services"
)

// LoginRequest represents the no-password login form: an email plus the name
// to use if the account does not exist yet
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// Login handles POST /api/v1/auth/login - finds or creates the user for the
// email and issues a bearer session token. Logging in twice with the same
// email never creates a second account.
func Login(c *gin.Context) {
	var req LoginRequest
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

	cfg := config.GetConfig()
	auth := services.NewAuthService(config.GetDB(), cfg.SessionTTL)

	user, session, err := auth.Login(c.Request.Context(), strings.ToLower(req.Email), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LOGIN_FAILED",
				"message": "Failed to log in",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":  user,
			"token": session.Token,
		},
	})
}

// Logout handles POST /api/v1/auth/logout - invalidates the current session
func Logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(token, "Bearer "); found {
		token = after
	}

	cfg := config.GetConfig()
	auth := services.NewAuthService(config.GetDB(), cfg.SessionTTL)
	if err := auth.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LOGOUT_FAILED",
				"message": "Failed to log out",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"loggedOut": true},
	})
}

// GetProfile handles GET /api/v1/users/me - returns the authenticated user
func GetProfile(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListUsers handles GET /api/v1/users - lists all users, newest first
// (admins only)
func ListUsers(c *gin.Context) {
	db := config.GetDB()

	var users []models.User
	if err := db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// DeleteUser handles DELETE /api/v1/users/:id - removes a user by public id
// (admins only). Their sessions go with them; orders are kept for the books.
func DeleteUser(c *gin.Context) {
	db := config.GetDB()

	var user models.User
	if err := db.WithContext(c.Request.Context()).Where("user_id = ?", c.Param("id")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	if err := db.WithContext(c.Request.Context()).Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete user sessions",
			},
		})
		return
	}

	if err := db.WithContext(c.Request.Context()).Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
