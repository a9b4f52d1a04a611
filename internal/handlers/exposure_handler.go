package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/services"
)

// ExposureHandler handles exposure and recommendation HTTP requests
type ExposureHandler struct {
	exposureService       services.ExposureService
	recommendationService services.RecommendationService
}

// NewExposureHandler creates a new ExposureHandler
func NewExposureHandler(exposureService services.ExposureService, recommendationService services.RecommendationService) *ExposureHandler {
	return &ExposureHandler{
		exposureService:       exposureService,
		recommendationService: recommendationService,
	}
}

// GetExposure handles GET /draws/:drawNumber/exposure
func (h *ExposureHandler) GetExposure(c *gin.Context) {
	drawNumber, err := strconv.ParseInt(c.Param("drawNumber"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw number"})
		return
	}
	agg, err := h.exposureService.Aggregate(c.Request.Context(), drawNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

// GetRecommendations handles GET /draws/:drawNumber/recommendations
func (h *ExposureHandler) GetRecommendations(c *gin.Context) {
	drawNumber, err := strconv.ParseInt(c.Param("drawNumber"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw number"})
		return
	}
	strategy, ok := models.ParseStrategy(c.DefaultQuery("strategy", string(models.StrategyZeroExposure)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "strategy must be ZERO_EXPOSURE, MIN_PAYOUT or MAX_PAYOUT"})
		return
	}
	recs, err := h.recommendationService.Recommend(c.Request.Context(), drawNumber, strategy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draw_number": drawNumber, "strategy": strategy, "recommendations": recs})
}
