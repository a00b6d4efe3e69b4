package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Config{Level: "warn", Format: "json"})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "key", "value")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "value", line["key"])

	_, err = New(&buf, Config{Level: "loud"})
	assert.Error(t, err)
	_, err = New(&buf, Config{Level: "info", Format: "xml"})
	assert.Error(t, err)

	text, err := New(&buf, Config{Level: "debug", Format: "text"})
	require.NoError(t, err)
	assert.True(t, text.Enabled(t.Context(), slog.LevelDebug))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log, err := New(&buf, Config{Level: "info"})
	require.NoError(t, err)

	router := gin.New()
	router.Use(Middleware(log))
	router.GET("/cats", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	t.Run("generates a request id", func(t *testing.T) {
		buf.Reset()
		response := httptest.NewRecorder()
		router.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/cats", nil))

		requestID := response.Header().Get(RequestIDHeader)
		assert.Len(t, requestID, 36)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, requestID, line["request_id"])
		assert.Equal(t, "/cats", line["path"])
		assert.Equal(t, float64(http.StatusOK), line["status"])
	})

	t.Run("keeps the caller's request id", func(t *testing.T) {
		buf.Reset()
		request := httptest.NewRequest(http.MethodGet, "/missing", nil)
		request.Header.Set(RequestIDHeader, "abc-123")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, "abc-123", response.Header().Get(RequestIDHeader))
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "WARN", line["level"])
	})
}
