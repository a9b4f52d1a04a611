package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/services"
)

// DrawHandler handles draw lifecycle HTTP requests
type DrawHandler struct {
	drawService  services.DrawService
	timerService services.TimerService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService, timerService services.TimerService) *DrawHandler {
	return &DrawHandler{
		drawService:  drawService,
		timerService: timerService,
	}
}

// GetCurrentDraw handles GET /draws/current
func (h *DrawHandler) GetCurrentDraw(c *gin.Context) {
	info, err := h.drawService.GetCurrentDrawInfo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetHistory handles GET /draws/history
func (h *DrawHandler) GetHistory(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}
	results, err := h.drawService.GetRecentResults(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ResolveNowRequest is the optional body for POST /draws/resolve. Carrying
// the draw number the operator saw on screen makes a double-click a no-op on
// the already-resolved draw instead of a resolution of the next one.
type ResolveNowRequest struct {
	DrawNumber int64 `json:"draw_number"`
}

// ResolveNow handles POST /draws/resolve
func (h *DrawHandler) ResolveNow(c *gin.Context) {
	var request ResolveNowRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	drawNumber := request.DrawNumber
	if drawNumber == 0 {
		cycle, err := h.drawService.CurrentCycle(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		drawNumber = cycle.DrawNumber
	}
	result, err := h.drawService.ResolveCycle(c.Request.Context(), drawNumber, "operator")
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Resolution already in progress", "draw_number": drawNumber})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw resolved successfully", "result": result})
}

// SetManualNumberRequest is the body for POST /draws/manual-number
type SetManualNumberRequest struct {
	DrawNumber int64 `json:"draw_number" binding:"required"`
	Number     *int  `json:"number" binding:"required"`
}

// SetManualNumber handles POST /draws/manual-number
func (h *DrawHandler) SetManualNumber(c *gin.Context) {
	var request SetManualNumberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.drawService.SetManualNumber(c.Request.Context(), request.DrawNumber, *request.Number, operatorName(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manual number set", "draw_number": request.DrawNumber, "number": *request.Number})
}

// SetModeRequest is the body for POST /draws/mode
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetMode handles POST /draws/mode
func (h *DrawHandler) SetMode(c *gin.Context) {
	var request SetModeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, ok := models.ParseMode(request.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be AUTOMATIC or MANUAL"})
		return
	}
	if err := h.drawService.SetMode(c.Request.Context(), mode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mode updated", "mode": mode})
}

// UpdateTimerIntervalRequest is the body for PUT /draws/timer-interval
type UpdateTimerIntervalRequest struct {
	Seconds int `json:"seconds" binding:"required"`
}

// UpdateTimerInterval handles PUT /draws/timer-interval
func (h *DrawHandler) UpdateTimerInterval(c *gin.Context) {
	var request UpdateTimerIntervalRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.timerService.SetInterval(c.Request.Context(), request.Seconds); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Timer interval updated", "seconds": request.Seconds})
}

// ResyncRequest is the body for POST /draws/resync
type ResyncRequest struct {
	Force bool `json:"force"`
}

// Resync handles POST /draws/resync
func (h *DrawHandler) Resync(c *gin.Context) {
	var request ResyncRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endAt, err := h.timerService.Resync(c.Request.Context(), request.Force)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Timer resynced", "scheduled_end_at": endAt})
}
