package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/config"
	"github.com/vrindacare/pharmacy-api/controllers"
	"github.com/vrindacare/pharmacy-api/middleware"
	"github.com/vrindacare/pharmacy-api/models"
	"github.com/vrindacare/pharmacy-api/tests/testutil"
)

// AuthIntegrationTestSuite exercises the login/session flow end to end: the
// login endpoint issues a token, the session middleware resolves it, and
// logout invalidates it.
type AuthIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
}

func (suite *AuthIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
	config.SetConfig(&config.Config{
		GoEnv:      "test",
		SessionTTL: 30 * 24 * time.Hour,
	})
}

func (suite *AuthIntegrationTestSuite) SetupTest() {
	suite.db = testutil.OpenTestDB(suite.T())
	config.SetDB(suite.db)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)

		authed := v1.Group("", middleware.RequireSession())
		authed.GET("/users/me", controllers.GetProfile)

		admin := v1.Group("", middleware.RequireSession(), middleware.RequireAdmin())
		admin.GET("/users", controllers.ListUsers)
	}
}

func (suite *AuthIntegrationTestSuite) login(email, name string) (string, map[string]interface{}) {
	body, _ := json.Marshal(map[string]string{"email": email, "name": name})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	return data["token"].(string), data["user"].(map[string]interface{})
}

func (suite *AuthIntegrationTestSuite) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthIntegrationTestSuite) TestLoginThenAccessProtectedRoute() {
	token, user := suite.login("priya@example.com", "Priya Sharma")
	suite.Equal("customer", user["role"])

	w := suite.get("/api/v1/users/me", token)
	suite.Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	suite.Equal("priya@example.com", data["email"])
}

func (suite *AuthIntegrationTestSuite) TestProtectedRouteWithoutToken() {
	w := suite.get("/api/v1/users/me", "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthIntegrationTestSuite) TestLogoutInvalidatesSession() {
	token, _ := suite.login("priya@example.com", "Priya Sharma")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)

	// The token no longer works
	w2 := suite.get("/api/v1/users/me", token)
	suite.Equal(http.StatusUnauthorized, w2.Code)
}

func (suite *AuthIntegrationTestSuite) TestExpiredSessionIsRejected() {
	user, _ := testutil.CreateUserWithSession(suite.T(), suite.db, "Priya Sharma", "priya@example.com", models.RoleCustomer)
	expiredToken := testutil.CreateExpiredSession(suite.T(), suite.db, user)

	w := suite.get("/api/v1/users/me", expiredToken)
	suite.Equal(http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	suite.Equal("SESSION_EXPIRED", errorData["code"])
}

func (suite *AuthIntegrationTestSuite) TestAdminGate() {
	customerToken, _ := suite.login("priya@example.com", "Priya Sharma")

	// Customers are blocked from the admin surface
	w := suite.get("/api/v1/users", customerToken)
	suite.Equal(http.StatusForbidden, w.Code)

	// Admins pass
	_, adminToken := testutil.CreateUserWithSession(suite.T(), suite.db, "Admin", "admin@vrindacare.example", models.RoleAdmin)
	w = suite.get("/api/v1/users", adminToken)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *AuthIntegrationTestSuite) TestRepeatLoginKeepsOneAccount() {
	_, first := suite.login("priya@example.com", "Priya Sharma")
	_, second := suite.login("priya@example.com", "Someone Else")
	suite.Equal(first["id"], second["id"])
	suite.Equal("Priya Sharma", second["name"])

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	suite.Equal(int64(1), count)
}

func TestAuthIntegrationTestSuite(t *testing.T) {
	testutil.MustSetTestEnvironment(t)
	suite.Run(t, new(AuthIntegrationTestSuite))
}
