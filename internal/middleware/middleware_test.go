package middleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	apperrors "github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator map[string]*model.Account

func (f fakeAuthenticator) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	if acc, ok := f[token]; ok {
		return acc, nil
	}
	return nil, apperrors.Unauthorized(nil)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	account := &model.Account{ID: uuid.New(), IsActive: true}
	auth := NewAuthMiddleware(fakeAuthenticator{"good": account})

	r := gin.New()
	r.GET("/me", auth.Authenticate(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentAccount(c).ID.String())
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			w := serve(r, http.MethodGet, "/me", h)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, account.ID.String(), w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_RequireSuperuser(t *testing.T) {
	auth := NewAuthMiddleware(fakeAuthenticator{
		"root": {ID: uuid.New(), IsSuperuser: true},
		"user": {ID: uuid.New()},
	})
	r := gin.New()
	r.GET("/admin", auth.Authenticate(), auth.RequireSuperuser(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := serve(r, http.MethodGet, "/admin", http.Header{"Authorization": {"Bearer user"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodGet, "/admin", http.Header{"Authorization": {"Bearer root"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCurrentAccount_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentAccount(c))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	w := serve(r, http.MethodGet, "/", http.Header{HeaderXRequestID: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(HeaderXRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	w = serve(r, http.MethodGet, "/", http.Header{HeaderXRequestID: {strings.Repeat("x", 200)}})
	_, err := uuid.Parse(w.Header().Get(HeaderXRequestID))
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) {
		panic("boom")
	})

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1})
	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestCacheControl(t *testing.T) {
	r := gin.New()
	r.Use(CacheControl(PublicCatalogCacheConfig()))
	r.GET("/services", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/services", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := serve(r, http.MethodGet, "/services", nil)
	assert.Equal(t, "public, max-age=300, stale-while-revalidate=60", w.Header().Get("Cache-Control"))
	assert.Equal(t, "Accept", w.Header().Get("Vary"))

	w = serve(r, http.MethodPost, "/services", nil)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestErrorHandler_RendersUnwrittenError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(zerolog.Nop()))
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("patient", nil))
	})
	r.GET("/opaque", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	w := serve(r, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "patient not found")

	w = serve(r, http.MethodGet, "/opaque", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(SizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"too long"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(DefaultSecurityConfig()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://clinic.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", http.Header{"Origin": {"https://clinic.example"}})
	assert.Equal(t, "https://clinic.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/", http.Header{"Origin": {"https://evil.example"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})

	w := serve(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())
}

func TestCompress(t *testing.T) {
	r := gin.New()
	r.Use(Compress(DefaultCompressConfig()))
	r.GET("/doctors", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"name": "Dr. Chase"}) })
	r.DELETE("/doctors", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "up 1") })

	w := serve(r, http.MethodGet, "/doctors", http.Header{"Accept-Encoding": {"gzip, deflate"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Dr. Chase"}`, string(body))

	w = serve(r, http.MethodGet, "/doctors", nil)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"name":"Dr. Chase"}`, w.Body.String())

	w = serve(r, http.MethodDelete, "/doctors", http.Header{"Accept-Encoding": {"gzip"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Zero(t, w.Body.Len())

	w = serve(r, http.MethodGet, "/metrics", http.Header{"Accept-Encoding": {"gzip"}})
	assert.Equal(t, "up 1", w.Body.String())
}
