package routes

import (
	"net/http"
	"time"

	"knipetak/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers the calendar surface.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.GET("/day/:date", hb.Availability.GetDayHandler)
		api.POST("/day/:date/refresh", hb.Availability.RefreshDayHandler)
		api.POST("/prefetch", hb.Availability.PrefetchMonthHandler)
		api.GET("/status", hb.Availability.StatusHandler)
	}
}

// RegisterCatalogRoutes registers the treatment and location catalogs.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/treatments", hb.Catalog.ListTreatmentsHandler)
		api.GET("/treatments/:id", hb.Catalog.GetTreatmentHandler)
		api.GET("/locations", hb.Catalog.ListLocationsHandler)
	}
}

// RegisterScheduleRoutes registers provider schedule administration.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	{
		api.GET("/default", hb.Schedule.GetDefaultWeeklyHandler)
		api.PUT("/default", hb.Schedule.SetDefaultWeeklyHandler)
		api.GET("/overrides", hb.Schedule.ListOverridesHandler)
		api.PUT("/overrides", hb.Schedule.SetOverrideHandler)
		api.DELETE("/overrides/:date", hb.Schedule.DeleteOverrideHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Knipetak"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
