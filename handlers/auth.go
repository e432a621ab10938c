package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/dollar-advisor/config"
	"github.com/yourusername/dollar-advisor/middleware"
	"github.com/yourusername/dollar-advisor/models"
	"github.com/yourusername/dollar-advisor/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// VerificationTTL is how long an emailed code stays valid.
const VerificationTTL = 10 * time.Minute

var (
	errEmailRegistered     = errors.New("email is already registered")
	errUsernameTaken       = errors.New("username is already taken")
	errNotVerified         = errors.New("email has not been verified")
	errVerificationExpired = errors.New("email verification has expired")
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	mailer utils.MailerInterface
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:     db,
		config: cfg,
		mailer: utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom),
	}
}

type RegisterRequest struct {
	Email                string `json:"email" binding:"required,email"`
	Username             string `json:"username" binding:"required"`
	Password             string `json:"password" binding:"required"`
	InvestmentPreference string `json:"investment_preference" binding:"required"`
	RiskTolerance        string `json:"risk_tolerance" binding:"required"`
}

// Register creates a user for an email with an unexpired verification
// record, consuming the record in the same transaction.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errEmailRegistered
		}
		if err := tx.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errUsernameTaken
		}

		var vc models.VerificationCode
		if err := tx.Where("email = ?", req.Email).First(&vc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotVerified
			}
			return err
		}
		if vc.Expired(time.Now()) {
			return errVerificationExpired
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := models.User{
			Email:                req.Email,
			Username:             req.Username,
			PasswordHash:         string(hash),
			IsActive:             true,
			InvestmentPreference: req.InvestmentPreference,
			RiskTolerance:        req.RiskTolerance,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		return tx.Delete(&vc).Error
	})

	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "registration complete"})
	case errors.Is(err, errEmailRegistered),
		errors.Is(err, errUsernameTaken),
		errors.Is(err, errNotVerified),
		errors.Is(err, errVerificationExpired):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		log.Printf("register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to register user"})
	}
}

type VerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestVerification emails a fresh one-time code, replacing any
// pending code for the address.
func (h *AuthHandler) RequestVerification(c *gin.Context) {
	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		log.Printf("verification lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to request verification"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": errEmailRegistered.Error()})
		return
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		log.Printf("code generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to request verification"})
		return
	}

	if err := h.db.Where("email = ?", req.Email).Delete(&models.VerificationCode{}).Error; err != nil {
		log.Printf("stale code cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to request verification"})
		return
	}

	record := models.VerificationCode{
		Email:     req.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(VerificationTTL),
	}
	if err := h.db.Create(&record).Error; err != nil {
		log.Printf("code store failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to request verification"})
		return
	}

	if err := h.mailer.SendVerificationCode(req.Email, code); err != nil {
		log.Printf("verification mail failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// VerifyEmail checks a submitted code against the pending record. The
// record is kept until registration consumes it.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var vc models.VerificationCode
	if err := h.db.Where("email = ?", req.Email).First(&vc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "no pending verification for this email"})
			return
		}
		log.Printf("verification lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to verify email"})
		return
	}

	if vc.Code != req.Code {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "verification code does not match"})
		return
	}
	if vc.Expired(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "verification code has expired"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token authenticates a user and issues an access token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "incorrect username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "incorrect username or password"})
		return
	}

	token, err := middleware.GenerateToken(user.Username, h.config.JWTSecret, middleware.DefaultTokenTTL)
	if err != nil {
		log.Printf("token signing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
