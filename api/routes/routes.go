package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mohagy/roulette-sub003/internal/config"
	"github.com/mohagy/roulette-sub003/internal/handlers"
	"github.com/mohagy/roulette-sub003/internal/middleware"
)

// HandlerDependencies carries the wired handlers into the router.
type HandlerDependencies struct {
	Auth         *handlers.AuthHandler
	Draw         *handlers.DrawHandler
	ForcedNumber *handlers.ForcedNumberHandler
	Exposure     *handlers.ExposureHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.Auth.Login)
		}

		// Display surface: no auth, polled by shop screens.
		public.GET("/draws/current", deps.Draw.GetCurrentDraw)
		public.GET("/draws/history", deps.Draw.GetHistory)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		draws := protected.Group("/draws")
		{
			draws.POST("/resolve", deps.Draw.ResolveNow)
			draws.POST("/manual-number", deps.Draw.SetManualNumber)
			draws.POST("/mode", deps.Draw.SetMode)
			draws.PUT("/timer-interval", deps.Draw.UpdateTimerInterval)
			draws.POST("/resync", deps.Draw.Resync)
			draws.GET("/:drawNumber/exposure", deps.Exposure.GetExposure)
			draws.GET("/:drawNumber/recommendations", deps.Exposure.GetRecommendations)
		}

		forced := protected.Group("/forced-numbers")
		{
			forced.POST("", deps.ForcedNumber.Create)
			forced.GET("/:drawNumber", deps.ForcedNumber.GetStatus)
		}
	}

	return router
}
