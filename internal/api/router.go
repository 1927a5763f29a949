// Package api exposes the console over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/console"
)

type handler struct {
	svc *console.Service
	log zerolog.Logger
}

// NewRouter builds the console HTTP API.
func NewRouter(svc *console.Service, log zerolog.Logger) *gin.Engine {
	h := &handler{svc: svc, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/login", h.login)
	api.GET("/session", h.session)

	authed := api.Group("")
	authed.Use(h.requireSession())
	{
		authed.POST("/logout", h.logout)
		authed.GET("/stats", h.stats)

		authed.GET("/devices", h.listDevices)
		authed.POST("/devices", h.registerDevice)
		authed.PUT("/devices/:id/group", h.updateDeviceGroup)

		authed.GET("/content", h.listContent)
		authed.POST("/content", h.addContent)
		authed.DELETE("/content/:id", h.removeContent)

		authed.GET("/notices", h.listNotices)
		authed.POST("/notices", h.addNotice)
		authed.POST("/notices/:id/toggle", h.toggleNotice)
		authed.DELETE("/notices/:id", h.deleteNotice)

		authed.POST("/assist/notice", h.draftNotice)
		authed.POST("/assist/refine", h.refineText)
	}

	return r
}
