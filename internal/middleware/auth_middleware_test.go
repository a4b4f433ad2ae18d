package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

const jwtSecret = "test-secret-key"

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) IsLoggedIn(email string) bool {
	args := m.Called(email)
	return args.Bool(0)
}

func setupRouter(t *testing.T, sessions middleware.SessionChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(zaptest.NewLogger(t)))

	// Защищенный маршрут
	protected := r.Group("/protected")
	protected.Use(middleware.JWTAuthMiddleware(auth.NewTokenIssuer(jwtSecret, time.Hour)))
	if sessions != nil {
		protected.Use(middleware.RequireSession(sessions))
	}

	protected.GET("/resource", func(c *gin.Context) {
		email, exists := c.Get(middleware.UserEmailKey)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User email not found in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"email":   email,
		})
	})

	return r
}

func generateTestToken(email string) string {
	token, _ := auth.NewTokenIssuer(jwtSecret, 24*time.Hour).GenerateToken(email)
	return token
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	// Arrange
	router := setupRouter(t, nil)
	token := generateTestToken("alice@x.com")

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), "alice@x.com")
	assert.NotEmpty(t, resp.Header().Get(middleware.RequestIDHeader))
}

func TestJWTAuthMiddleware_NoAuthHeader(t *testing.T) {
	// Arrange
	router := setupRouter(t, nil)

	// Создаем запрос без заголовка авторизации
	req, _ := http.NewRequest("GET", "/protected/resource", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"ErrorMessage":"Authorization header is required","ReturnValue":null}`, resp.Body.String())
}

func TestJWTAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	// Arrange
	router := setupRouter(t, nil)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "InvalidFormat token123")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"ErrorMessage":"Authorization header format must be Bearer {token}","ReturnValue":null}`, resp.Body.String())
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	// Arrange
	router := setupRouter(t, nil)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"ErrorMessage":"Invalid or expired token","ReturnValue":null}`, resp.Body.String())
}

func TestJWTAuthMiddleware_TokenWithoutEmail(t *testing.T) {
	// Arrange
	router := setupRouter(t, nil)

	claims := jwt.MapClaims{
		"user_id": "not-an-email-claim",
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(jwtSecret))

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"ErrorMessage":"Invalid or expired token","ReturnValue":null}`, resp.Body.String())
}

func TestRequireSession_LoggedOut(t *testing.T) {
	// Arrange
	sessions := new(mockSessions)
	sessions.On("IsLoggedIn", "alice@x.com").Return(false)
	router := setupRouter(t, sessions)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken("alice@x.com"))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.JSONEq(t, `{"ErrorMessage":"User is not logged in","ReturnValue":null}`, resp.Body.String())
	sessions.AssertExpectations(t)
}

func TestRequireSession_LoggedIn(t *testing.T) {
	// Arrange
	sessions := new(mockSessions)
	sessions.On("IsLoggedIn", "alice@x.com").Return(true)
	router := setupRouter(t, sessions)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken("alice@x.com"))
	req.Header.Set(middleware.RequestIDHeader, "req-1")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "req-1", resp.Header().Get(middleware.RequestIDHeader))
	sessions.AssertExpectations(t)
}
