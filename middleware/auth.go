package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yourusername/dollar-advisor/config"
	"github.com/yourusername/dollar-advisor/models"
	"gorm.io/gorm"
)

// ContextUserKey is where JwtAuthMiddleware stores the resolved user.
const ContextUserKey = "currentUser"

// DefaultTokenTTL is the lifetime of an access token.
const DefaultTokenTTL = 30 * time.Minute

// Claims represents the JWT claims; the subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken creates a new signed JWT for a username
func GenerateToken(username string, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// JwtAuthMiddleware validates the bearer token and resolves its subject
// to an existing, active user before the handler runs.
func JwtAuthMiddleware(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := parts[1]

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			}
			c.Abort()
			return
		}

		if !token.Valid || claims.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			c.Abort()
			return
		}

		// The token is stateless; the subject must still exist now.
		var user models.User
		if err := db.Where("username = ?", claims.Subject).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unknown user"})
			c.Abort()
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "User account is inactive"})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)

		c.Next()
	}
}
