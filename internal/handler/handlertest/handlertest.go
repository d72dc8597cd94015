// Package handlertest drives gin handlers in tests without the auth
// middleware.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/middleware"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Envelope mirrors httputil.Response with Data left raw.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Engine returns an engine whose requests run as acc; nil means anonymous.
// register mounts the routes under /api/v1.
func Engine(acc *model.Account, register func(*gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	if acc != nil {
		api.Use(func(c *gin.Context) {
			c.Set(middleware.ContextAccount, acc)
			c.Next()
		})
	}
	register(api)
	return r
}

// Do sends a request. A string body is sent verbatim, anything else is
// JSON encoded.
func Do(t testing.TB, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Decode parses the response envelope and, when dest is not nil, its data.
func Decode(t testing.TB, w *httptest.ResponseRecorder, dest interface{}) *Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest), string(env.Data))
	}
	return &env
}
