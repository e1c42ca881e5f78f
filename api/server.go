package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"timervid/jobs"
	"timervid/timeline"
	"timervid/types"
)

// RequestProcessor plans and renders single timer requests
type RequestProcessor interface {
	Plan(req types.RenderRequest) (timeline.Plan, error)
	ProcessRequest(ctx context.Context, req types.RenderRequest) (types.RenderResult, error)
}

// NewRouter constructs a Gin engine with registered routes. checks back
// the health endpoint.
func NewRouter(manager *jobs.Manager, proc RequestProcessor, checks ...HealthCheck) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r, checks)
	RegisterPlanRoutes(r, proc)
	RegisterRenderRoutes(r, manager, proc)
	return r
}

// Endpoints lists the routes for the startup banner
var Endpoints = []string{
	"GET  /api/health",
	"POST /api/plan",
	"POST /api/render",
	"GET  /api/jobs",
	"GET  /api/jobs/:id",
	"GET  /api/logs",
}
