package servehttp

import (
	"nextvision/bizerror"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit applies one token bucket to the whole ingress.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			panic(&bizerror.ErrTooManyRequests{})
		}
		c.Next()
	}
}
