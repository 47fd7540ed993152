package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func corsRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORS(origins...))
	r.GET("/brands", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func corsRequest(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/brands", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	r := corsRouter("*")

	preflight := corsRequest(r, http.MethodOptions, "https://anywhere.example")
	require.Equal(t, http.StatusNoContent, preflight.Code)
	require.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, preflight.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	require.Contains(t, preflight.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	w := corsRequest(r, http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictsOrigins(t *testing.T) {
	r := corsRouter("https://admin.example.com/")

	allowed := corsRequest(r, http.MethodOptions, "https://admin.example.com")
	require.Equal(t, http.StatusNoContent, allowed.Code)
	require.Equal(t, "https://admin.example.com", allowed.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", allowed.Header().Get("Vary"))

	denied := corsRequest(r, http.MethodOptions, "https://evil.example")
	require.Equal(t, http.StatusForbidden, denied.Code)
	require.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))

	simple := corsRequest(r, http.MethodGet, "https://evil.example")
	require.Equal(t, http.StatusOK, simple.Code)
	require.Empty(t, simple.Header().Get("Access-Control-Allow-Origin"))
}
