package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timervid/timeline"
	"timervid/types"
)

// PlanResponse is the render plan of a timer without rendering it
type PlanResponse struct {
	Summary  string        `json:"summary"`
	Duration string        `json:"duration"`
	Plan     timeline.Plan `json:"plan"`
}

// RegisterPlanRoutes registers the dry-run planning endpoint.
func RegisterPlanRoutes(r *gin.Engine, proc RequestProcessor) {
	r.POST("/api/plan", func(c *gin.Context) {
		handlePlan(c, proc)
	})
}

func handlePlan(c *gin.Context, proc RequestProcessor) {
	var req types.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := proc.Plan(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, PlanResponse{
		Summary:  plan.Summary(),
		Duration: timeline.FormatClock(int(plan.Total)),
		Plan:     plan,
	})
}
