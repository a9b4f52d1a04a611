package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/services"
)

// ForcedNumberHandler handles forced-outcome directive HTTP requests
type ForcedNumberHandler struct {
	forcedService services.ForcedNumberService
}

// NewForcedNumberHandler creates a new ForcedNumberHandler
func NewForcedNumberHandler(forcedService services.ForcedNumberService) *ForcedNumberHandler {
	return &ForcedNumberHandler{forcedService: forcedService}
}

// CreateForcedNumberRequest is the body for POST /forced-numbers
type CreateForcedNumberRequest struct {
	TargetDrawNumber int64  `json:"target_draw_number" binding:"required"`
	Number           *int   `json:"number" binding:"required"`
	Reason           string `json:"reason"`
}

// Create handles POST /forced-numbers
func (h *ForcedNumberHandler) Create(c *gin.Context) {
	var request CreateForcedNumberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	directive, err := h.forcedService.Create(c.Request.Context(), request.TargetDrawNumber, *request.Number, operatorName(c), request.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, directive)
}

// GetStatus handles GET /forced-numbers/:drawNumber
func (h *ForcedNumberHandler) GetStatus(c *gin.Context) {
	drawNumber, err := strconv.ParseInt(c.Param("drawNumber"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw number"})
		return
	}
	directive, err := h.forcedService.Peek(c.Request.Context(), drawNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"draw_number": drawNumber, "pending": false})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draw_number": drawNumber, "pending": true, "directive": directive})
}
