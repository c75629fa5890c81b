package site

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vgandi/cyber-portfolio/internal/visitors"
	"github.com/vgandi/cyber-portfolio/pkg/logger"
)

// observe logs every request and records its metrics under the route
// pattern, so that session ids do not explode label cardinality.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		d := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		s.metrics.ObserveRequest(route, c.Request.Method, status, d)

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("route", route),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("latency", d),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			s.log.Error(c.Request.Context(), "request failed", fields...)
		default:
			s.log.Debug(c.Request.Context(), "request served", fields...)
		}
	}
}

// trackVisitors queues a privacy-conscious page view. Static files, admin
// pages, APIs and Do Not Track requests are skipped.
func (s *Server) trackVisitors() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.tracker != nil && visitors.ShouldTrack(c.Request.URL.Path, c.GetHeader("DNT")) {
			err := s.tracker.Track(visitors.View{
				IP:        c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
				Path:      c.Request.URL.Path,
			})
			if err != nil {
				s.log.Warn(c.Request.Context(), "visitor dropped", logger.Error(err))
			}
		}
		c.Next()
	}
}
