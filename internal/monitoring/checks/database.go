package checks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/monitoring"
)

const defaultDatabaseTimeout = 2 * time.Second

// Database returns a probe that pings the configured database handle.
func Database(db *gorm.DB, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if db == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "database not configured"}
		}

		sqlDB, err := db.DB()
		if err != nil {
			return monitoring.ResultFromError("database", err, time.Since(start))
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultDatabaseTimeout))
		defer cancel()

		err = sqlDB.PingContext(probeCtx)
		result := monitoring.ResultFromError("database", err, time.Since(start))
		if err != nil {
			// Nothing is served without the database.
			result.Status = monitoring.StatusDown
		}
		return result
	})
}

func chooseTimeout(provided, fallback time.Duration) time.Duration {
	if provided <= 0 {
		return fallback
	}
	return provided
}
