package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID holds the request correlation id.
const ContextKeyRequestID = "request_id"

// Probe and scrape endpoints are hit every few seconds and would drown the log.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs each request with its route template, status, size, latency and caller.
// Successful probe requests are not logged.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if quietPaths[c.Request.URL.Path] && status < 400 {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		who := "-"
		if s := GetSession(c); s.IsAuthenticated {
			who = s.UserID.String()
		}
		log.Printf("[%s] %s %s %d %dB %s user=%s",
			c.GetString(ContextKeyRequestID),
			c.Request.Method,
			route,
			status,
			max(c.Writer.Size(), 0),
			time.Since(start),
			who,
		)
		if len(c.Errors) > 0 {
			log.Printf("[%s] errors: %s", c.GetString(ContextKeyRequestID), c.Errors.String())
		}
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
