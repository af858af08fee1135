package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupHealthRouter creates a test Gin router for the handler.
func setupHealthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestHealthHandler_Health(t *testing.T) {
	// Health does not touch the database, so a nil handle is fine here.
	handler := &HealthHandler{
		startTime: time.Now(),
		env:       "test",
	}

	router := setupHealthRouter()
	router.GET("/health", handler.Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "healthy", response.Status)
}

func TestHealthHandler_Info(t *testing.T) {
	handler := &HealthHandler{
		startTime: time.Now().Add(-90 * time.Minute),
		env:       "development",
	}

	router := setupHealthRouter()
	router.GET("/api/v1/info", handler.Info)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response InfoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, APIVersion, response.Version)
	assert.Equal(t, "development", response.Environment)
	assert.Equal(t, "1h 30m 0s", response.Uptime)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "minutes and seconds",
			duration: 5*time.Minute + 12*time.Second,
			expected: "0h 5m 12s",
		},
		{
			name:     "hours",
			duration: 3*time.Hour + 4*time.Minute,
			expected: "3h 4m 0s",
		},
		{
			name:     "days",
			duration: 49*time.Hour + 30*time.Minute,
			expected: "2d 1h 30m 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatUptime(tt.duration))
		})
	}
}
