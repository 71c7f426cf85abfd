package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger writes one entry per request. Private errors are logged here and never reach the client.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithField("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"uri":      c.Request.RequestURI,
			"status":   c.Writer.Status(),
			"size":     c.Writer.Size(),
			"duration": time.Since(start),
		}
		if userID, ok := c.Get(CurrentUserIDKey); ok {
			fields["userID"] = userID
		}
		l := entry.WithFields(fields)

		if len(c.Errors) > 0 {
			l = l.WithField("errors", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			l.Error("request")
		case status >= 400:
			l.Warn("request")
		default:
			l.Info("request")
		}
	}
}
