package http

import (
	"errors"
	"net/http"

	"github.com/dagligdags/backend/internal/domain"
	"github.com/dagligdags/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher   *usecase.DealMatcher
	optimizer *usecase.BasketOptimizer
	profiles  domain.ProfileRepository
	deals     domain.DealSource
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	matcher *usecase.DealMatcher,
	optimizer *usecase.BasketOptimizer,
	profiles domain.ProfileRepository,
	deals domain.DealSource,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		matcher:   matcher,
		optimizer: optimizer,
		profiles:  profiles,
		deals:     deals,
		logger:    logger,
	}
}

// RankRequest is the body of a deal ranking request
type RankRequest struct {
	UserID   string           `json:"user_id" binding:"required"`
	Deals    []domain.Deal    `json:"deals"`
	Location *domain.Location `json:"location"`
}

// RankResponse lists the personalized deals, best first
type RankResponse struct {
	Deals []domain.ScoredDeal `json:"deals"`
	Count int                 `json:"count"`
}

// BasketRequest is the body of a basket optimization request
type BasketRequest struct {
	UserID       string        `json:"user_id" binding:"required"`
	ShoppingList []string      `json:"shopping_list"`
	Deals        []domain.Deal `json:"deals"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dagligdags-backend",
		"version": "1.0.0",
	})
}

// RankDeals handles personalized deal ranking requests
func (h *Handler) RankDeals(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	deals, ok := h.resolveDeals(c, req.Deals)
	if !ok {
		return
	}

	ranked := h.matcher.FindPersonalizedDeals(c.Request.Context(), req.UserID, deals, req.Location)
	c.JSON(http.StatusOK, RankResponse{Deals: ranked, Count: len(ranked)})
}

// OptimizeBasket handles shopping basket optimization requests
func (h *Handler) OptimizeBasket(c *gin.Context) {
	var req BasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	deals, ok := h.resolveDeals(c, req.Deals)
	if !ok {
		return
	}

	best := h.optimizer.OptimizeBasket(c.Request.Context(), req.UserID, req.ShoppingList, deals)
	c.JSON(http.StatusOK, best)
}

// GetProfile returns the stored profile of a user
func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.Param("userID")

	profile, err := h.profiles.Load(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			h.badRequest(c, err)
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrProfileNotFound.Error()})
		default:
			h.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// PutProfile stores the onboarding answers of a user
func (h *Handler) PutProfile(c *gin.Context) {
	userID := c.Param("userID")

	var profile domain.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.profiles.Save(c.Request.Context(), userID, profile); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			h.badRequest(c, err)
			return
		}
		h.logger.Error("failed to save profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// resolveDeals returns the request's deals, or the configured source's deals when none were sent
func (h *Handler) resolveDeals(c *gin.Context, requested []domain.Deal) ([]domain.Deal, bool) {
	if requested != nil {
		return requested, true
	}
	if h.deals == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrDealSourceFailure.Error()})
		return nil, false
	}

	deals, err := h.deals.ListDeals(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list deals", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return nil, false
	}
	return deals, true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   domain.ErrInvalidRequest.Error(),
		"details": err.Error(),
	})
}
