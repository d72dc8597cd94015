package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheConfig represents cache control configuration
type CacheConfig struct {
	MaxAge               int
	Private              bool
	MustRevalidate       bool
	StaleWhileRevalidate int
	Vary                 []string
}

// PublicCatalogCacheConfig is applied to the anonymous service and doctor
// listings.
func PublicCatalogCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge:               300,
		StaleWhileRevalidate: 60,
		Vary:                 []string{"Accept"},
	}
}

// CacheControl adds cache control headers to GET responses. Other methods
// are marked no-store.
func CacheControl(config CacheConfig) gin.HandlerFunc {
	header := config.header()
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		c.Header("Cache-Control", header)
		if len(config.Vary) > 0 {
			c.Writer.Header().Add("Vary", strings.Join(config.Vary, ", "))
		}
		c.Next()
	}
}

func (config CacheConfig) header() string {
	directives := make([]string, 0, 4)
	if config.Private {
		directives = append(directives, "private")
	} else {
		directives = append(directives, "public")
	}
	if config.MaxAge > 0 {
		directives = append(directives, "max-age="+strconv.Itoa(config.MaxAge))
	}
	if config.MustRevalidate {
		directives = append(directives, "must-revalidate")
	}
	if config.StaleWhileRevalidate > 0 {
		directives = append(directives, "stale-while-revalidate="+strconv.Itoa(config.StaleWhileRevalidate))
	}
	return strings.Join(directives, ", ")
}
