package middleware

import (
	"compress/gzip"
	"strings"

	"github.com/gin-gonic/gin"
)

// gzipWriter starts compressing on the first body write, so responses
// without a body (204, HEAD) go out untouched.
type gzipWriter struct {
	gin.ResponseWriter
	level int
	gz    *gzip.Writer
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	if g.gz == nil {
		gz, err := gzip.NewWriterLevel(g.ResponseWriter, g.level)
		if err != nil {
			return 0, err
		}
		g.Header().Del("Content-Length")
		g.Header().Set("Content-Encoding", "gzip")
		g.gz = gz
	}
	return g.gz.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func (g *gzipWriter) close() {
	if g.gz != nil {
		_ = g.gz.Close()
	}
}

type CompressConfig struct {
	Level int
	// Excluded path prefixes are never compressed.
	Excluded []string
}

func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		Level:    gzip.DefaultCompression,
		Excluded: []string{"/metrics", "/api/v1/health"},
	}
}

// Compress gzips response bodies for clients that accept it.
func Compress(config CompressConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range config.Excluded {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gw := &gzipWriter{ResponseWriter: c.Writer, level: config.Level}
		c.Writer = gw
		c.Writer.Header().Add("Vary", "Accept-Encoding")
		defer gw.close()

		c.Next()
	}
}
