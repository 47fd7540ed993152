package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/storeadmin/internal/handlers/testutil"
	"github.com/charlesng35/storeadmin/internal/monitoring"
)

func TestHealth(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := testutil.DecodeResponse(t, w)
	require.True(t, resp.Status)

	var report monitoring.HealthReport
	testutil.DecodeInto(t, resp.Data, &report)
	require.Equal(t, monitoring.StatusUp, report.Status)
	require.Len(t, report.Checks, 2)
}

func TestHealthReportsUnavailableDatabase(t *testing.T) {
	env := testutil.NewEnv(t)

	sqlDB, err := env.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := env.Request(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.False(t, resp.Status)
	require.Equal(t, "Service unavailable", resp.Message)
}
