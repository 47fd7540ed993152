package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/storeadmin/internal/monitoring"
	appErrors "github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/charlesng35/storeadmin/pkg/response"
)

// Health evaluates the dependency probes. A degraded cache still answers 200;
// a failed probe answers 503.
func Health(manager *monitoring.HealthManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			manager = monitoring.NewHealthManager()
		}
		report := manager.Evaluate(requestContext(c))
		if !report.Serving() {
			unavailable := appErrors.New("UNAVAILABLE", "Service unavailable", http.StatusServiceUnavailable)
			unavailable.Details = report.Checks
			response.Error(c, unavailable)
			return
		}
		response.Success(c, http.StatusOK, "OK", report)
	}
}
