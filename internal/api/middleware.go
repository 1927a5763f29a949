package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const userKey = "user"

// requestLogger logs one line per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error().Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// requireSession rejects requests while no operator is signed in.
func (h *handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.svc.CurrentUser(c.Request.Context())
		if err != nil {
			FailErr(c, err)
			return
		}
		if user == nil {
			Fail(c, http.StatusUnauthorized, "not signed in")
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}
