package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency of the renderer. A failing required
// check makes the service unavailable; an optional one only degrades it.
type HealthCheck struct {
	Name     string
	Required bool
	Check    func() error
}

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(r *gin.Engine, checks []HealthCheck) {
	r.GET("/api/health", func(c *gin.Context) { handleHealth(c, checks) })
}

func handleHealth(c *gin.Context, checks []HealthCheck) {
	status, code := "ok", http.StatusOK
	results := make(map[string]string, len(checks))

	for _, hc := range checks {
		if err := hc.Check(); err != nil {
			results[hc.Name] = err.Error()
			if hc.Required {
				status, code = "unavailable", http.StatusServiceUnavailable
			} else if status == "ok" {
				status = "degraded"
			}
			continue
		}
		results[hc.Name] = "ok"
	}

	c.JSON(code, gin.H{"status": status, "checks": results})
}
