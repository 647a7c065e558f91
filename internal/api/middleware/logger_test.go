package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = previous })
	return &buf
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())
	r.GET("/api/v1/owners/:owner/products/:product/contact", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"url": "https://wa.me/1"})
	})
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})
	return r
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLoggerTagsOwnerAndProduct(t *testing.T) {
	buf := captureLog(t)
	router := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/owners/owner-1/products/P001/contact?x=1", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	entry := lastLine(t, buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "/api/v1/owners/:owner/products/:product/contact", entry["route"])
	assert.Equal(t, "owner-1", entry["owner_id"])
	assert.Equal(t, "P001", entry["product_id"])
	assert.Equal(t, "x=1", entry["query"])
	assert.NotContains(t, entry, "order_id")
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	captureLog(t)
	router := newEngine()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/owners/o/products/p/contact", nil))

	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRecoveryReturnsJSON(t *testing.T) {
	buf := captureLog(t)
	router := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
	assert.Equal(t, "req-7", body["request_id"])

	entry := lastLine(t, buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(http.StatusInternalServerError), entry["status"])
}
