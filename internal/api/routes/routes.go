package routes

import (
	"github.com/gin-gonic/gin"

	"yt-transcript/internal/api/handlers"
	"yt-transcript/internal/app/transcript"
)

// ServiceContainer holds the services the API routes call into
type ServiceContainer struct {
	TranscriptService transcript.Service
}

// RegisterRoutes registers the transcript API routes under router
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	transcriptHandler := handlers.NewTranscriptHandler(container.TranscriptService)
	router.POST("/fetch-transcript", transcriptHandler.FetchTranscript)
}
