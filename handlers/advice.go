package handlers

import (
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/yourusername/dollar-advisor/config"
	"github.com/yourusername/dollar-advisor/middleware"
	"github.com/yourusername/dollar-advisor/models"
	"github.com/yourusername/dollar-advisor/utils"
	"gorm.io/gorm"
)

// HistoryDays is how much rate history feeds the advice prompt.
const HistoryDays = 30

const newsQuery = "USD KRW exchange rate outlook"

type AdviceHandler struct {
	db      *gorm.DB
	config  *config.Config
	rates   utils.RateClientInterface
	news    utils.NewsClientInterface
	advisor utils.AdvisorInterface
}

func NewAdviceHandler(db *gorm.DB, cfg *config.Config) *AdviceHandler {
	return &AdviceHandler{
		db:      db,
		config:  cfg,
		rates:   utils.NewRateClient(cfg.QuoteURL, cfg.ExchangeRateAPIKey),
		news:    utils.NewNewsClient(cfg.NewsURL),
		advisor: utils.NewAdvisor(openai.NewClient(cfg.OpenAIAPIKey), openai.GPT3Dot5Turbo),
	}
}

// AdvancedInvestmentAdvice runs the full pipeline for the authenticated
// user: rates, news, then the two model calls, all inline.
func (h *AdviceHandler) AdvancedInvestmentAdvice(c *gin.Context) {
	v, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
		return
	}
	user := v.(models.User)

	currentRate, err := h.rates.CurrentRate()
	if err != nil {
		log.Printf("current rate fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "exchange rate service unavailable"})
		return
	}

	historical, err := h.rates.HistoricalRates(HistoryDays)
	if err != nil {
		log.Printf("historical rates fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "exchange rate service unavailable"})
		return
	}

	snippet, err := h.news.LatestSnippet(newsQuery)
	if err != nil {
		log.Printf("news fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to generate investment advice"})
		return
	}

	advice, err := h.advisor.Generate(c.Request.Context(), utils.AdviceInput{
		CurrentRate:     currentRate,
		HistoricalRates: historical,
		NewsSnippet:     snippet,
		Preference:      user.InvestmentPreference,
		RiskTolerance:   user.RiskTolerance,
	})
	if err != nil {
		log.Printf("advice pipeline failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to generate investment advice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current_rate":     currentRate,
		"historical_rates": historical,
		"advice":           advice,
	})
}

type CalculateRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Days   int     `json:"days" binding:"required,gt=0"`
}

// Calculate projects an amount at a fixed 5% nominal annual rate. No
// market data is involved.
func (h *AdviceHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	finalAmount := req.Amount * math.Pow(1.05, float64(req.Days)/365.0)

	c.JSON(http.StatusOK, gin.H{"final_amount": finalAmount})
}
