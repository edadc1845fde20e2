package entity

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the cached entity read endpoints consumed by the web
// layer. `refresh=true` bypasses the cache and replaces the entry.
func RegisterRoutes(router gin.IRouter, caches *Caches) {
	handler := &httpHandler{caches: caches}
	api := router.Group("/api")
	api.GET("/users/:id", handler.getUser)
	api.GET("/users/:id/notifications", handler.getNotifications)
	api.GET("/institutions/:id", handler.getInstitution)
	api.GET("/institutions/:id/jobs", handler.getJobs)
}

type httpHandler struct {
	caches *Caches
}

func (h *httpHandler) getUser(c *gin.Context) {
	respond(c, h.caches.Users)
}

func (h *httpHandler) getInstitution(c *gin.Context) {
	respond(c, h.caches.Institutions)
}

func (h *httpHandler) getJobs(c *gin.Context) {
	respond(c, h.caches.Jobs)
}

func (h *httpHandler) getNotifications(c *gin.Context) {
	respond(c, h.caches.Notifications)
}

func respond[T any](c *gin.Context, cache *Cache[T]) {
	id := c.Param("id")

	if c.Query("refresh") == "true" {
		_ = cache.Invalidate(c.Request.Context(), id)
	}

	val, err := cache.GetOrFetch(c.Request.Context(), id)
	if err != nil {
		if c.Request.Context().Err() == context.Canceled {
			c.Status(http.StatusRequestTimeout)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service unavailable"})
		return
	}

	c.JSON(http.StatusOK, val)
}
