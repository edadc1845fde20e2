package avatar

import (
	"errors"
	"io"
	"net/http"

	"github.com/PharmInc/media-gateway/internal/media"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the profile-picture upload endpoint.
func RegisterRoutes(router gin.IRouter, pipeline *Pipeline) {
	handler := &httpHandler{pipeline: pipeline}
	router.POST("/upload-profile-picture", handler.uploadProfilePicture)
}

type httpHandler struct {
	pipeline *Pipeline
}

func (h *httpHandler) uploadProfilePicture(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	userID := c.PostForm("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file payload"})
		return
	}
	defer file.Close()

	src, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file payload"})
		return
	}

	stored, err := h.pipeline.NormalizeAndStore(c.Request.Context(), userID, fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile picture"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store profile picture"})
		}
		return
	}

	c.JSON(http.StatusOK, stored)
}
