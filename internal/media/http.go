package media

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Object keys are never mutated in place, so fetch responses are immutable.
const cacheControl = "public, max-age=31536000, immutable"

// RegisterRoutes mounts gateway operations on the router. requireAuth guards
// destructive routes.
func RegisterRoutes(router gin.IRouter, service *Service, requireAuth gin.HandlerFunc) {
	handler := &httpHandler{service: service}
	router.GET("/cdn/:folderId", handler.fetchLegacy)
	router.GET("/cdn/:folderId/:fileId", handler.fetchFile)
	router.POST("/upload", handler.uploadFile)
	router.POST("/presigned-url", handler.issueGrant)
	router.GET("/fetch-folder", handler.listFolder)
	router.DELETE("/delete", requireAuth, handler.deleteFolder)
	router.GET("/get-user-profile/:filename", handler.fetchProfile)
}

type httpHandler struct {
	service *Service
}

type grantRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
	FolderID string `json:"folderId"`
}

func (h *httpHandler) issueGrant(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	grant, err := h.service.IssueGrant(c.Request.Context(), UploadDescriptor{
		FileName: req.FileName,
		MimeType: req.FileType,
		ByteSize: req.FileSize,
		FolderID: req.FolderID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, grant)
}

func (h *httpHandler) uploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	folderID := c.PostForm("folderId")

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file payload"})
		return
	}
	defer file.Close()

	stored, err := h.service.Store(c.Request.Context(), file, UploadDescriptor{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		ByteSize: fileHeader.Size,
		FolderID: folderID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stored)
}

func (h *httpHandler) fetchFile(c *gin.Context) {
	folderID := c.Param("folderId")
	fileID := c.Param("fileId")

	// an id carrying its extension skips the probe
	ext := c.Query("ext")
	if ext == "" {
		if i := strings.LastIndex(fileID, "."); i > 0 {
			ext = fileID[i+1:]
			fileID = fileID[:i]
		}
	}

	etag := etagFor(folderID, fileID)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	obj, err := h.service.Fetch(c.Request.Context(), folderID, fileID, ext)
	if err != nil {
		writeError(c, err)
		return
	}

	fileName := c.Query("filename")
	if fileName == "" {
		fileName = obj.FileName
	}

	writeObject(c, obj, fileName, etag)
}

func (h *httpHandler) fetchLegacy(c *gin.Context) {
	fileID := c.Param("folderId")
	fileType := c.Query("type")
	ext := c.Query("ext")

	if fileType == "" || ext == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type and ext query parameters are required"})
		return
	}

	obj, err := h.service.FetchLegacy(c.Request.Context(), fileType, fileID, ext)
	if err != nil {
		writeError(c, err)
		return
	}

	writeObject(c, obj, obj.FileName, etagFor(fileType, fileID))
}

func (h *httpHandler) listFolder(c *gin.Context) {
	folderID := c.Query("folderId")

	entries, err := h.service.ListFolder(c.Request.Context(), folderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": entries, "count": len(entries)})
}

func (h *httpHandler) deleteFolder(c *gin.Context) {
	folderID := c.Query("folderId")
	if folderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folderId query parameter is required"})
		return
	}

	removed, err := h.service.DeleteFolder(c.Request.Context(), folderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *httpHandler) fetchProfile(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
		return
	}

	obj, err := h.service.FetchAvatar(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	fileName := c.Param("filename")
	if fileName == "" {
		fileName = obj.FileName
	}

	writeObject(c, obj, fileName, etagFor(avatarPrefix, userID))
}

func writeObject(c *gin.Context, obj FetchedObject, fileName, etag string) {
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName))
	c.Header("Cache-Control", cacheControl)
	c.Header("ETag", etag)
	c.Data(http.StatusOK, obj.ContentType, obj.Body)
}

// writeError maps the error taxonomy to HTTP statuses with generic messages;
// operational detail stays in the server logs.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": trimSentinel(err, ErrValidation)})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, ErrStore):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// trimSentinel keeps the human hint of a validation error without the
// sentinel prefix.
func trimSentinel(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	return strings.TrimPrefix(msg, ": ")
}

// etagFor derives a stable tag from the id pair; a changed artifact always
// gets a fresh file id, so the tag never needs to change.
func etagFor(scope, fileID string) string {
	sum := sha256.Sum256([]byte(scope + "/" + fileID))
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}
