package api

import (
	"alcyxob/coach-dashboard/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	planService service.PlanService,
	libraryService service.LibraryService,
	mediaService service.MediaService,
) {
	planHandler := NewPlanHandler(planService, libraryService)
	libraryHandler := NewLibraryHandler(libraryService)
	mediaHandler := NewMediaHandler(mediaService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		// GET /api/v1/media/url?key=...
		apiV1.GET("/media/url", mediaHandler.GetMediaURL)

		trainerGroup := apiV1.Group("/trainers/:trainerId")
		trainerGroup.Use(TrainerMiddleware())
		{
			// --- Plans ---
			trainerGroup.POST("/clients/:clientId/plans", planHandler.CreatePlan)
			trainerGroup.GET("/clients/:clientId/plans", planHandler.GetPlansForClient)

			trainerGroup.GET("/plans/:planId", planHandler.GetPlan)
			trainerGroup.PUT("/plans/:planId", planHandler.SavePlan)
			trainerGroup.DELETE("/plans/:planId", planHandler.DeletePlan)
			// POST /api/v1/trainers/{trainerId}/plans/{planId}/commands
			trainerGroup.POST("/plans/:planId/commands", planHandler.ApplyCommands)
			trainerGroup.GET("/plans/:planId/progress", planHandler.GetProgress)

			// --- Library ---
			trainerGroup.GET("/library", libraryHandler.GetTemplates)
			trainerGroup.POST("/library", libraryHandler.CreateTemplate)
			trainerGroup.PUT("/library/:templateId", libraryHandler.UpdateTemplate)
			trainerGroup.DELETE("/library/:templateId", libraryHandler.DeleteTemplate)
		}
	}
}
