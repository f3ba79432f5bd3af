package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/models"
)

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	router := setupTestRouter()
	router.POST("/auth/login", Login)

	body := map[string]interface{}{
		"email": "Priya@Example.com",
		"name":  "Priya Sharma",
	}
	w := doJSONRequest(t, router, http.MethodPost, "/auth/login", body)
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	user := data["user"].(map[string]interface{})
	// Emails are stored lowercased
	assert.Equal(t, "priya@example.com", user["email"])
	assert.Equal(t, "Priya Sharma", user["name"])
	assert.Equal(t, "customer", user["role"])
	assert.NotEmpty(t, user["joined"])
	assert.Equal(t, "+91 98765 43210", user["phone"])

	// A second login reuses the account
	w = doJSONRequest(t, router, http.MethodPost, "/auth/login", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name        string
		requestBody map[string]interface{}
	}{
		{
			name:        "missing email",
			requestBody: map[string]interface{}{"name": "Priya Sharma"},
		},
		{
			name:        "invalid email",
			requestBody: map[string]interface{}{"email": "not-an-email", "name": "Priya Sharma"},
		},
		{
			name:        "missing name",
			requestBody: map[string]interface{}{"email": "priya@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			config.SetDB(db)
			setupTestConfig()

			router := setupTestRouter()
			router.POST("/auth/login", Login)

			w := doJSONRequest(t, router, http.MethodPost, "/auth/login", tt.requestBody)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assertErrorCode(t, w, "VALIDATION_ERROR")
		})
	}
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	router := setupTestRouter()
	router.POST("/auth/login", Login)
	router.POST("/auth/logout", Logout)

	w := doJSONRequest(t, router, http.MethodPost, "/auth/login", map[string]interface{}{
		"email": "priya@example.com",
		"name":  "Priya Sharma",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	token := parseResponse(t, w)["data"].(map[string]interface{})["token"].(string)

	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w2 := doRawRequest(router, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	customer := createTestCustomer(t, db, "Priya Sharma", "priya@example.com")

	router := setupTestRouter()
	router.GET("/users/me", mockSessionMiddleware(customer), GetProfile)

	w := doJSONRequest(t, router, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "priya@example.com", data["email"])
	assert.Equal(t, customer.UserID, data["id"])
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	admin := createTestAdmin(t, db)
	createTestCustomer(t, db, "Priya Sharma", "priya@example.com")

	router := setupTestRouter()
	router.GET("/users", mockSessionMiddleware(admin), ListUsers)

	w := doJSONRequest(t, router, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(t, w)["data"].([]interface{}), 2)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	admin := createTestAdmin(t, db)
	customer := createTestCustomer(t, db, "Priya Sharma", "priya@example.com")

	// The customer holds an active session that must go with them
	session := models.Session{Token: "customer-session", UserID: customer.ID}
	assert.NoError(t, db.Create(&session).Error)

	router := setupTestRouter()
	router.DELETE("/users/:id", mockSessionMiddleware(admin), DeleteUser)

	w := doJSONRequest(t, router, http.MethodDelete, "/users/"+customer.UserID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	assert.Equal(t, int64(1), userCount) // only the admin remains

	var sessionCount int64
	db.Model(&models.Session{}).Count(&sessionCount)
	assert.Equal(t, int64(0), sessionCount)

	w = doJSONRequest(t, router, http.MethodDelete, "/users/"+customer.UserID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorCode(t, w, "USER_NOT_FOUND")
}
