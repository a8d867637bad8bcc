package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyRequired authenticates requests against the single configured
// reporting key. Keys are compared as SHA-256 digests in constant time.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	expected := sha256.Sum256([]byte(s.cfg.APIKey))

	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if provided == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		got := sha256.Sum256([]byte(provided))
		if subtle.ConstantTimeCompare(got[:], expected[:]) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
