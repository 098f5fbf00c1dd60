package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func perform(t *testing.T, handler gin.HandlerFunc, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(handler)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAllowsConfiguredOrigin(t *testing.T) {
	w := perform(t, New([]string{"https://app.nexel.test"}), http.MethodGet, "https://app.nexel.test")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.nexel.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestIgnoresUnknownOrigin(t *testing.T) {
	w := perform(t, New([]string{"https://app.nexel.test"}), http.MethodGet, "https://evil.example")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginMatchIsCaseInsensitive(t *testing.T) {
	w := perform(t, New([]string{"https://App.Nexel.Test/"}), http.MethodGet, "https://app.nexel.test")

	assert.Equal(t, "https://app.nexel.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEmptyListAllowsAll(t *testing.T) {
	w := perform(t, New(nil), http.MethodGet, "https://anywhere.example")

	assert.Equal(t, "https://anywhere.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightShortCircuits(t *testing.T) {
	w := perform(t, New(nil), http.MethodOptions, "https://anywhere.example")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}
