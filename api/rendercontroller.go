package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"timervid/jobs"
	"timervid/types"
)

// RegisterRenderRoutes registers render submission and job status endpoints.
func RegisterRenderRoutes(r *gin.Engine, manager *jobs.Manager, proc RequestProcessor) {
	r.POST("/api/render", func(c *gin.Context) {
		handleRender(c, manager, proc)
	})

	g := r.Group("/api/jobs")
	g.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"jobs": manager.List()})
	})
	g.GET("/:id", func(c *gin.Context) {
		handleGetJob(c, manager)
	})

	r.GET("/api/logs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"logs": manager.Logs()})
	})
}

// handleRender validates a request and queues it for background rendering
func handleRender(c *gin.Context, manager *jobs.Manager, proc RequestProcessor) {
	var req types.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	// Planning up front rejects requests that would fail or render nothing.
	if _, err := proc.Plan(req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid timer", err)
		return
	}

	log.Printf("📥 Received render request: %s %q", req.Kind, req.Name())

	// The job outlives the HTTP request.
	ctx := context.WithoutCancel(c.Request.Context())
	job := manager.Submit(ctx, req, proc.ProcessRequest)

	c.JSON(http.StatusAccepted, types.ProcessVideoResponse{
		Success: true,
		Message: "Render queued",
		JobID:   job.ID,
	})
}

func handleGetJob(c *gin.Context, manager *jobs.Manager) {
	job, err := manager.Get(c.Param("id"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

// respondWithError sends an error response
func respondWithError(c *gin.Context, statusCode int, message string, err error) {
	response := types.ProcessVideoResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
		log.Printf("❌ API Error: %s - %v", message, err)
	}
	c.JSON(statusCode, response)
}
