package router

import (
	"net/http"

	"github.com/cuongbtq/sitejobs/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "sitejobs-api-service",
		})
	})

	// Photos written by the local photo store
	if deps.PhotoRoot != "" {
		r.Static("/photos", deps.PhotoRoot)
	}

	jobHandler := handler.NewJobHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(handler.RequesterMiddleware())
	{
		jobs := v1.Group("/jobs")
		{
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/:job_id", jobHandler.GetJob)
			jobs.PATCH("/:job_id", jobHandler.UpdateJob)
			jobs.DELETE("/:job_id", jobHandler.DeleteJob)

			// Work update ledger of a job
			jobs.POST("/:job_id/updates", jobHandler.CreateWorkUpdate)
			jobs.GET("/:job_id/updates", jobHandler.ListWorkUpdates)

			jobs.GET("/:job_id/photos", jobHandler.ListPhotos)
		}

		v1.GET("/stats", jobHandler.GetStatistics)
		v1.GET("/export", jobHandler.Export)
		v1.POST("/import", jobHandler.Import)

		// Structured entry points for the WhatsApp bot
		whatsapp := v1.Group("/whatsapp")
		{
			whatsapp.POST("/jobs", jobHandler.CreateWhatsAppJob)
			whatsapp.POST("/updates", jobHandler.CreateWhatsAppUpdate)
			whatsapp.POST("/photos", jobHandler.UploadWhatsAppPhoto)
		}
	}

	return r
}
