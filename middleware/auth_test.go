package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/dollar-advisor/config"
	"github.com/yourusername/dollar-advisor/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.VerificationCode{}))
	return db
}

func TestJwtAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret: "test-secret",
	}

	db := setupTestDB(t)
	db.Create(&models.User{Email: "alice@example.com", Username: "alice", PasswordHash: "x", IsActive: true})
	db.Create(&models.User{Email: "bob@example.com", Username: "bob", PasswordHash: "x", IsActive: false})

	validToken, _ := GenerateToken("alice", cfg.JWTSecret, 1*time.Hour)
	expiredToken, _ := GenerateToken("alice", cfg.JWTSecret, -1*time.Hour)
	unknownToken, _ := GenerateToken("mallory", cfg.JWTSecret, 1*time.Hour)
	inactiveToken, _ := GenerateToken("bob", cfg.JWTSecret, 1*time.Hour)
	foreignToken, _ := GenerateToken("alice", "other-secret", 1*time.Hour)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "Valid Token",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Invalid " + validToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + expiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Token has expired",
		},
		{
			name:           "Invalid Token",
			authHeader:     "Bearer invalid.token.string",
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Invalid token",
		},
		{
			name:           "Wrong Secret",
			authHeader:     "Bearer " + foreignToken,
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Invalid token",
		},
		{
			name:           "Unknown Subject",
			authHeader:     "Bearer " + unknownToken,
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Unknown user",
		},
		{
			name:           "Inactive User",
			authHeader:     "Bearer " + inactiveToken,
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "inactive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JwtAuthMiddleware(cfg, db))
			router.GET("/test", func(c *gin.Context) {
				v, _ := c.Get(ContextUserKey)
				user := v.(models.User)
				c.JSON(http.StatusOK, gin.H{"username": user.Username})
			})

			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedDetail != "" {
				assert.Contains(t, w.Body.String(), tt.expectedDetail)
			}
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), "alice")
			}
		})
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "round-trip-secret"}
	db := setupTestDB(t)
	db.Create(&models.User{Email: "alice@example.com", Username: "alice", PasswordHash: "x", IsActive: true})

	token, err := GenerateToken("alice", cfg.JWTSecret, DefaultTokenTTL)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	router := gin.New()
	router.Use(JwtAuthMiddleware(cfg, db))
	router.GET("/me", func(c *gin.Context) {
		v, _ := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"username": v.(models.User).Username})
	})

	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}
