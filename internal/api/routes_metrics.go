package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlesng35/storeadmin/internal/app"
)

const defaultMetricsEndpoint = "/metrics"

func registerMetricsRoute(r *gin.Engine, cfg app.PrometheusConfig) {
	if !cfg.Enabled {
		return
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultMetricsEndpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	r.GET(endpoint, gin.WrapH(promhttp.Handler()))
}
