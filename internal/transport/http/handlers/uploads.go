package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// maxUploadBytes caps image uploads at 5 MiB.
const maxUploadBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadHandler stores image files and returns their public URLs.
type UploadHandler struct {
	store port.ImageStore
	auth  *usecase.AuthService
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(store port.ImageStore, auth *usecase.AuthService) *UploadHandler {
	return &UploadHandler{store: store, auth: auth}
}

// RegisterRoutes binds the upload route.
func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/uploads", middleware.RequireAuth(h.auth), h.upload)
}

func (h *UploadHandler) upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "image storage is not configured"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "a 'file' form field is required"))
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse(c, "file exceeds the 5 MiB limit"))
		return
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		c.JSON(http.StatusUnsupportedMediaType, NewErrorResponse(c, "only jpeg, png, webp, and gif images are accepted"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to read upload"))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil || int64(len(data)) > maxUploadBytes {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to read upload"))
		return
	}

	key := uploadKey(middleware.CurrentUserID(c), ext)
	url, err := h.store.Upload(c.Request.Context(), key, contentType, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to store image"))
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{URL: url})
}

func uploadKey(userID, ext string) string {
	if userID == "" {
		userID = "anonymous"
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	return path.Join("uploads", userID, fmt.Sprintf("%s%s", name, ext))
}
